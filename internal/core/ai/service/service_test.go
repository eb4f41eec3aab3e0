package service

import (
	"context"
	"testing"
	"time"

	"grocery-planning/internal/core/ai/gateway"
	"grocery-planning/internal/core/ai/model"
	"grocery-planning/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransportGateway(t *testing.T) {
	tr, err := NewTransport(context.Background(), config.ModelConfig{
		Transport:  config.TransportGateway,
		GatewayURL: "http://localhost:9999",
		Timeout:    time.Second,
	})
	require.NoError(t, err)
	defer tr.Close()

	assert.IsType(t, &gateway.Client{}, tr)
	assert.Equal(t, "gateway:http://localhost:9999", tr.Name())
}

func TestNewTransportErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.ModelConfig
	}{
		{"gateway without url", config.ModelConfig{Transport: config.TransportGateway}},
		{"unknown transport", config.ModelConfig{Transport: "carrier-pigeon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTransport(context.Background(), tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestNewInvokerDetectsFamily(t *testing.T) {
	inv, tr, err := NewInvoker(context.Background(), config.ModelConfig{
		ID:          "anthropic.claude-3-haiku-20240307-v1:0",
		MaxTokens:   600,
		Temperature: 0.3,
		Transport:   config.TransportGateway,
		GatewayURL:  "http://localhost:9999",
	})
	require.NoError(t, err)
	defer tr.Close()

	assert.Equal(t, model.FamilyMessages, inv.Family())
	assert.Equal(t, "anthropic.claude-3-haiku-20240307-v1:0", inv.ModelID())
}
