package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Facility is a syslog facility code, already shifted into the priority
// position (code << 3), so it can be OR-ed with a Severity.
type Facility int

// Severity is a syslog severity level, 0 (emerg) through 7 (debug).
type Severity int

const (
	SeverityEmerg Severity = iota
	SeverityAlert
	SeverityCrit
	SeverityErr
	SeverityWarning
	SeverityNotice
	SeverityInfo
	SeverityDebug
)

const (
	FacilityKern Facility = iota << 3
	FacilityUser
	FacilityMail
	FacilityDaemon
	FacilityAuth
	FacilitySyslog
	FacilityLPR
	FacilityNews
	FacilityUUCP
	FacilityCron
	FacilityAuthPriv
	FacilityFTP
	_
	_
	_
	_
	FacilityLocal0
	FacilityLocal1
	FacilityLocal2
	FacilityLocal3
	FacilityLocal4
	FacilityLocal5
	FacilityLocal6
	FacilityLocal7
)

// Defaults carried over from the original daemon.
const (
	DefaultFacility = FacilityLocal0
	DefaultSeverity = SeverityErr
)

var facilityNames = map[string]Facility{
	"kern":     FacilityKern,
	"user":     FacilityUser,
	"mail":     FacilityMail,
	"daemon":   FacilityDaemon,
	"auth":     FacilityAuth,
	"syslog":   FacilitySyslog,
	"lpr":      FacilityLPR,
	"news":     FacilityNews,
	"uucp":     FacilityUUCP,
	"cron":     FacilityCron,
	"authpriv": FacilityAuthPriv,
	"ftp":      FacilityFTP,
	"local0":   FacilityLocal0,
	"local1":   FacilityLocal1,
	"local2":   FacilityLocal2,
	"local3":   FacilityLocal3,
	"local4":   FacilityLocal4,
	"local5":   FacilityLocal5,
	"local6":   FacilityLocal6,
	"local7":   FacilityLocal7,
}

var severityNames = map[string]Severity{
	"emerg":   SeverityEmerg,
	"alert":   SeverityAlert,
	"crit":    SeverityCrit,
	"err":     SeverityErr,
	"error":   SeverityErr,
	"warning": SeverityWarning,
	"warn":    SeverityWarning,
	"notice":  SeverityNotice,
	"info":    SeverityInfo,
	"debug":   SeverityDebug,
}

// ParseFacility resolves a facility name such as "local0" or "daemon".
// Matching is case-insensitive and accepts an optional "log_" prefix.
func ParseFacility(s string) (Facility, error) {
	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "log_")
	f, ok := facilityNames[key]
	if !ok {
		return 0, fmt.Errorf("%w: unknown facility %q (valid: %s)", ErrInvalidConfig, s, strings.Join(names(facilityNames), ", "))
	}
	return f, nil
}

// ParseSeverity resolves a severity name such as "err" or "info".
func ParseSeverity(s string) (Severity, error) {
	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "log_")
	sev, ok := severityNames[key]
	if !ok {
		return 0, fmt.Errorf("%w: unknown severity %q (valid: %s)", ErrInvalidConfig, s, strings.Join(names(severityNames), ", "))
	}
	return sev, nil
}

// Code returns the unshifted facility number (0-23).
func (f Facility) Code() int {
	return int(f) >> 3
}

// String returns the canonical facility name.
func (f Facility) String() string {
	for name, v := range facilityNames {
		if v == f {
			return name
		}
	}
	return fmt.Sprintf("facility(%d)", f.Code())
}

// String returns the canonical severity name.
func (s Severity) String() string {
	switch s {
	case SeverityEmerg:
		return "emerg"
	case SeverityAlert:
		return "alert"
	case SeverityCrit:
		return "crit"
	case SeverityErr:
		return "err"
	case SeverityWarning:
		return "warning"
	case SeverityNotice:
		return "notice"
	case SeverityInfo:
		return "info"
	case SeverityDebug:
		return "debug"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

func names[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
