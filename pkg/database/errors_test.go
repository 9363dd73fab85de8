package database

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"connection failure", &pq.Error{Code: "08006"}, true},
		{"cannot connect now", &pq.Error{Code: "57P03"}, true},
		{"too many connections", &pq.Error{Code: "53300"}, true},
		{"undefined column", &pq.Error{Code: "42703"}, false},
		{"wrapped connection failure", fmt.Errorf("load stats: %w", &pq.Error{Code: "08001"}), true},
		{"bad driver connection", driver.ErrBadConn, true},
		{"record not found", gorm.ErrRecordNotFound, false},
		{"plain error", errors.New("syntax error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConnectionError(tt.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("player: %w", gorm.ErrRecordNotFound)))
	assert.False(t, IsNotFound(&pq.Error{Code: "08006"}))
}
