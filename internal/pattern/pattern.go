// Package pattern implements the closed set of traffic-class generators
// (web, dns, ssh, database, smtp, ftp, random) behind a case-insensitive,
// alias-aware factory, following the tag-keyed constructor-registry style
// of the teacher's internal/factory/task_factory.go.
package pattern

import (
	"fmt"
	"strings"

	"flowgen/internal/model"
	"flowgen/internal/rng"
)

// Pattern is the contract every traffic-class generator implements.
type Pattern interface {
	// Generate produces one FlowRecord at the given timestamp, drawing
	// addresses from the supplied subnet pools and sizing the packet by
	// the class's own size policy. Only the random class draws from the
	// whole [minPktSize, maxPktSize] range; the others use fixed bounds
	// (dns, ssh) or a fixed lower bound up to maxPktSize, and do not
	// consult minPktSize.
	Generate(src *rng.Source, timestampNs uint64, srcSubnets, dstSubnets []string, srcWeights []float64, minPktSize, maxPktSize uint32) (model.FlowRecord, error)

	// Tag returns the canonical class tag this pattern was registered
	// under, so a pattern obtained through the factory can be checked
	// against CanonicalTag.
	Tag() string
}

// factoryFunc constructs a fresh Pattern instance.
type factoryFunc func() Pattern

// registry maps canonical tags and their aliases to a factory.
var registry = map[string]factoryFunc{}

// aliases maps every accepted tag spelling (including the canonical one) to
// its canonical tag, used by CanonicalTag.
var aliases = map[string]string{}

// register installs a pattern factory under its canonical tag plus any
// aliases. Names are stored as given, so they must be lower case: Make and
// CanonicalTag lower-case the tag before looking it up.
func register(canonical string, f factoryFunc, aliasNames ...string) {
	registry[canonical] = f
	aliases[canonical] = canonical
	for _, a := range aliasNames {
		registry[a] = f
		aliases[a] = canonical
	}
}

func init() {
	register("random", func() Pattern { return &randomPattern{} })
	register("web_traffic", func() Pattern { return &webPattern{} }, "http_traffic", "https_traffic")
	register("dns_traffic", func() Pattern { return &dnsPattern{} })
	register("ssh_traffic", func() Pattern { return &sshPattern{} })
	register("database_traffic", func() Pattern { return &databasePattern{} })
	register("smtp_traffic", func() Pattern { return &smtpPattern{} }, "email_traffic")
	register("ftp_traffic", func() Pattern { return &ftpPattern{} })
}

// Make maps a case-insensitive tag (or registered alias) to a fresh
// Pattern instance. Unknown tags return model.ErrUnknownPattern.
func Make(tag string) (Pattern, error) {
	f, ok := registry[strings.ToLower(tag)]
	if !ok {
		return nil, fmt.Errorf("%q: %w", tag, model.ErrUnknownPattern)
	}
	return f(), nil
}

// CanonicalTag resolves an alias (or the canonical tag itself) to its
// canonical spelling, or "" if tag is not registered.
func CanonicalTag(tag string) string {
	return aliases[strings.ToLower(tag)]
}

// ephemeralPortMin/Max bound the source-port draw shared by every class
// (spec §4.2).
const (
	ephemeralPortMin = 49152
	ephemeralPortMax = 65535
)

// sourceAndDest draws the source IP (weighted if srcWeights is non-empty)
// and destination IP (uniform) shared by every pattern's Generate.
func sourceAndDest(src *rng.Source, srcSubnets, dstSubnets []string, srcWeights []float64) (srcIP, dstIP uint32, err error) {
	srcIP, err = rng.RandomIPFromSubnets(src, srcSubnets, srcWeights)
	if err != nil {
		return 0, 0, err
	}
	dstIP, err = rng.RandomIPFromSubnets(src, dstSubnets, nil)
	if err != nil {
		return 0, 0, err
	}
	return srcIP, dstIP, nil
}

func ephemeralSourcePort(src *rng.Source) uint16 {
	return uint16(src.IntRange(ephemeralPortMin, ephemeralPortMax))
}
