package group

import (
	"strings"

	"github.com/cognicore/insights/pkg/insights/record"
)

// Fallback keys.
const (
	UnmatchedCenter = string(record.CenterUnmatched)
	OtherIndustry   = "Other"
	Customer        = "customer"
)

// Partner role keys.
const (
	Accompanied       = "accompanied"
	SystemsIntegrator = "systems integrator"
	Channel           = "channel"
)

// Account type and relationship values found in exports.
const (
	AccountChannel    = "Channel/ Reseller"
	AccountIntegrator = "Systems Integrator"
	RelationCustomer  = "Customer"
	RelationPartner   = "Partner"
)

type centerDim struct{}

// ByCenter groups visits by briefing center. Blank or unknown centers go
// to "unmatched".
func ByCenter() Dimension {
	return centerDim{}
}

func (centerDim) Name() string { return "center" }

func (centerDim) Keys() []string {
	cs := record.Centers()
	keys := make([]string, 0, len(cs)+1)
	for _, c := range cs {
		keys = append(keys, string(c))
	}
	return append(keys, UnmatchedCenter)
}

func (centerDim) KeyOf(v record.Visit) string {
	if v.Center.Known() {
		return string(v.Center)
	}
	return UnmatchedCenter
}

// Industry is one configured industry code and its display name.
type Industry struct {
	Code string
	Name string
}

// folded are merged into Other when folding is enabled.
var folded = []string{"Japan", "China"}

type industryDim struct {
	keys  []string
	known map[string]string
}

// ByIndustry groups visits by configured industry code. Labels that match
// no code go to "Other". With foldToOther, Japan and China are merged into
// "Other" as well.
func ByIndustry(industries []Industry, foldToOther bool) Dimension {
	d := industryDim{known: make(map[string]string)}
	skip := make(map[string]bool)
	if foldToOther {
		for _, f := range folded {
			skip[f] = true
		}
	}
	for _, ind := range industries {
		code := strings.TrimSpace(ind.Code)
		if code == "" || code == OtherIndustry || skip[code] {
			continue
		}
		if _, dup := d.known[code]; dup {
			continue
		}
		d.known[code] = code
		d.keys = append(d.keys, code)
	}
	d.keys = append(d.keys, OtherIndustry)
	return d
}

func (industryDim) Name() string { return "industry" }

func (d industryDim) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

func (d industryDim) KeyOf(v record.Visit) string {
	if k, ok := d.known[strings.TrimSpace(v.Industry)]; ok {
		return k
	}
	return OtherIndustry
}

type partnerDim struct{}

// ByPartnerRole groups visits by how a partner took part in the briefing.
// A "Partner" relationship is accompanied; otherwise a systems integrator
// or channel account type counts unless the relationship is "Customer".
// Everything else falls back to "customer".
func ByPartnerRole() Dimension {
	return partnerDim{}
}

func (partnerDim) Name() string { return "partner" }

func (partnerDim) Keys() []string {
	return []string{Accompanied, SystemsIntegrator, Channel, Customer}
}

func (partnerDim) KeyOf(v record.Visit) string {
	rel := strings.TrimSpace(v.Relationship)
	acct := strings.TrimSpace(v.AccountType)
	switch {
	case rel == RelationPartner:
		return Accompanied
	case rel == RelationCustomer:
		return Customer
	case acct == AccountIntegrator:
		return SystemsIntegrator
	case acct == AccountChannel:
		return Channel
	default:
		return Customer
	}
}

// IsPartner reports whether a partner role key denotes partner
// involvement.
func IsPartner(key string) bool {
	switch key {
	case Accompanied, SystemsIntegrator, Channel:
		return true
	}
	return false
}

// Partners returns the visits with partner involvement, in input order.
func Partners(visits []record.Visit) []record.Visit {
	dim := ByPartnerRole()
	var out []record.Visit
	for _, v := range visits {
		if IsPartner(dim.KeyOf(v)) {
			out = append(out, v)
		}
	}
	return out
}
