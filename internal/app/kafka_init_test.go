package app

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestInitKafkaProducer_EmptyBrokers(t *testing.T) {
	logger := log.WithField("test", "kafka")

	producer, err := initKafkaProducer("", logger)

	require.NoError(t, err)
	require.Nil(t, producer)
}

func TestInitKafkaProducer_WhitespaceBrokers(t *testing.T) {
	logger := log.WithField("test", "kafka")

	producer, err := initKafkaProducer("   ", logger)

	require.NoError(t, err)
	require.Nil(t, producer)
}

func TestInitKafkaProducer_UnreachableBrokers(t *testing.T) {
	logger := log.WithField("test", "kafka")

	producer, err := initKafkaProducer("invalid-broker:9999", logger)

	require.Error(t, err)
	require.Nil(t, producer)
}

func TestInitKafkaProducer_MultipleBrokersWithSpaces(t *testing.T) {
	logger := log.WithField("test", "kafka")

	// Список брокеров с пробелами после запятых должен корректно парситься,
	// но подключение к несуществующим хостам всё равно падает.
	producer, err := initKafkaProducer("broker1:9092, broker2:9092, broker3:9092", logger)

	require.Error(t, err)
	require.Nil(t, producer)
}

func TestCloseKafka_NilProducer(t *testing.T) {
	logger := log.WithField("test", "kafka")

	closeKafka(nil, logger)
}
