package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil scan service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingScanService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Scan: &mockScanService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})

	t.Run("history registers barcode tool", func(t *testing.T) {
		ports := &Ports{
			Scan:    &mockScanService{},
			History: &mockHistoryService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil scan service returns error", func(t *testing.T) {
		ports := &Ports{History: &mockHistoryService{}}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingScanService)
	})

	t.Run("scan only is valid", func(t *testing.T) {
		ports := &Ports{Scan: &mockScanService{}}
		assert.NoError(t, ports.Validate())
	})
}
