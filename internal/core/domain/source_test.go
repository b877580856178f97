package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSource_CollectionName(t *testing.T) {
	s := Source{ID: "fast"}
	assert.Equal(t, "fast", s.CollectionName())

	s.Collection = "moel_fastcounsel"
	assert.Equal(t, "moel_fastcounsel", s.CollectionName())
}

func TestSource_ConfigValue(t *testing.T) {
	s := Source{Config: map[string]string{"max_pages": "3", "empty": ""}}
	assert.Equal(t, "3", s.ConfigValue("max_pages", "0"))
	assert.Equal(t, "x", s.ConfigValue("empty", "x"))
	assert.Equal(t, "y", s.ConfigValue("missing", "y"))
}

func TestLookupConnectorType(t *testing.T) {
	ct, ok := LookupConnectorType(ConnectorTypeFastCounsel)
	assert.True(t, ok)
	assert.Equal(t, 50, ct.DefaultStopAfterComplete)
	assert.Equal(t, "moel_fastcounsel", ct.DefaultCollection)

	ct, ok = LookupConnectorType(ConnectorTypeIQRS)
	assert.True(t, ok)
	assert.Equal(t, "iqrs", ct.DefaultCollection)
	assert.False(t, ct.NeedsConfig())

	ct, ok = LookupConnectorType(ConnectorTypePDF)
	assert.True(t, ok)
	assert.Equal(t, "pdf", ct.DefaultCollection)
	assert.True(t, ct.NeedsConfig())

	_, ok = LookupConnectorType("github")
	assert.False(t, ok)
}
