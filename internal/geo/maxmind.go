// Package geo resolves IP addresses to countries via a MaxMind
// database. Annotation is best effort; a failed lookup yields an empty
// country, never an error surfaced to the pipeline.
package geo

import (
	"fmt"
	"net"

	"github.com/oschwald/maxminddb-golang"
	"go.uber.org/zap"
)

// Resolver looks up country codes for customer IPs.
type Resolver struct {
	reader *maxminddb.Reader
	logger *zap.Logger
}

// NewResolver opens the MaxMind database at path.
func NewResolver(path string, logger *zap.Logger) (*Resolver, error) {
	reader, err := maxminddb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geo database: %w", err)
	}
	return &Resolver{reader: reader, logger: logger}, nil
}

type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// Country returns the ISO country code for ip, or "" when the address
// is unparseable or not in the database.
func (r *Resolver) Country(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}

	var rec countryRecord
	if err := r.reader.Lookup(parsed, &rec); err != nil {
		r.logger.Debug("geo lookup failed", zap.String("ip", ip), zap.Error(err))
		return ""
	}
	return rec.Country.ISOCode
}

// Close closes the underlying database.
func (r *Resolver) Close() error {
	return r.reader.Close()
}
