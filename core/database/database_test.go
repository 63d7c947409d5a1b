package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnect(t *testing.T) {
	t.Run("Invalid Connection", func(t *testing.T) {
		cfg := Config{
			Host:           "127.0.0.1",
			Port:           1,
			User:           "root",
			Password:       "wrongpassword",
			Name:           "cardcommand",
			TimeoutSeconds: 1,
		}

		db, err := Connect(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDSN(t *testing.T) {
	dsn := DSN(Config{Host: "db", Port: 3306, User: "app", Password: "p@ss:word", Name: "cards"})

	assert.Equal(t, "app:p%40ss%3Aword@tcp(db:3306)/cards?charset=utf8mb4&parseTime=True&loc=UTC&timeout=10s&readTimeout=10s&writeTimeout=10s", dsn)
}
