package commands

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/entity"
	"bizdesk/internal/exitcode"
	"bizdesk/internal/transport"
)

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"nom=Acme", "motif=", "note=a=b", " fin =2026-01-01"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"nom": "Acme", "motif": "", "note": "a=b", "fin": "2026-01-01"}, got)

	_, err = parseAssignments([]string{"=x"})
	assert.Error(t, err)
	_, err = parseAssignments([]string{"nom"})
	assert.EqualError(t, err, "invalid assignment: nom (expected key=value)")
}

func TestExitFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, exitcode.Success},
		{&entity.ValidationError{Message: "x"}, exitcode.UserError},
		{fmt.Errorf("client #4: %w", entity.ErrUnknownRecord), exitcode.UserError},
		{entity.ErrUnknownField, exitcode.UserError},
		{entity.ErrNoSearch, exitcode.UserError},
		{&transport.HTTPError{Status: 500}, exitcode.BackendError},
		{&transport.NetworkError{Err: errors.New("refused")}, exitcode.BackendError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, exitFor(tt.err), "%v", tt.err)
	}
}
