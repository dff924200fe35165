package backend

import (
	"errors"
	"fmt"
	"strings"

	"riepilogo/internal/config"
)

// FromAppConfig picks the storage and event settings out of the process
// config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("backend: nil app config")
	}
	c := Config{
		Type:         BackendType(strings.ToLower(appConfig.DataBackend)),
		SQLiteDBPath: appConfig.SQLiteDBPath,
		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports settings CreateBackend could not honour.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("backend: unknown type %q (want one of %s)", c.Type, strings.Join(GetBackendTypeStrings(), ", "))
	}
	if c.Type == SQLiteBackend && strings.TrimSpace(c.SQLiteDBPath) == "" {
		return errors.New("backend: sqlite needs a database path")
	}
	if c.AMQPURL != "" && (c.AMQPExchange == "" || c.AMQPQueue == "") {
		return errors.New("backend: events need both an exchange and a queue name")
	}
	return nil
}

// GetBackendTypes lists the supported storage types, memory first.
func GetBackendTypes() []BackendType {
	return []BackendType{MemoryBackend, SQLiteBackend}
}

func GetBackendTypeStrings() []string {
	out := make([]string, 0, len(GetBackendTypes()))
	for _, t := range GetBackendTypes() {
		out = append(out, string(t))
	}
	return out
}
