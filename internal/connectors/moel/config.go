package moel

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

// Default site roots.
const (
	DefaultIQRSBaseURL        = "https://labor.moel.go.kr"
	DefaultFastCounselBaseURL = "https://www.moel.go.kr"
)

// Config holds connector configuration parsed from a source.
type Config struct {
	BaseURL string
}

// ParseConfig reads the connector configuration from a source, falling back
// to def for the base URL.
func ParseConfig(source domain.Source, def string) (Config, error) {
	base := strings.TrimRight(source.ConfigValue(domain.SourceConfigBaseURL, def), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, fmt.Errorf("%w: base_url %q", domain.ErrInvalidInput, base)
	}
	return Config{BaseURL: base}, nil
}
