package repo

import (
	"fmt"

	"github.com/tbourn/go-survey-backend/internal/config"
)

// Open builds the AppendLog selected by cfg.Backend.
func Open(cfg config.StoreConfig) (AppendLog, error) {
	switch cfg.Backend {
	case BackendFile, "":
		return NewFileLog(cfg.DataFile, cfg.Fsync)
	case BackendKafka:
		return NewKafkaLog(KafkaConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaTopic,
			WriteTimeout: cfg.WriteTimeout,
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
