package project

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tracker/internal/workflow"
)

func rawOps(t *testing.T, doc string) []workflow.RawOperation {
	t.Helper()
	var raw []workflow.RawOperation
	require.NoError(t, json.Unmarshal([]byte(doc), &raw))
	return raw
}
