package domain

import (
	"fmt"
	"strconv"
)

// DefaultBaudRate is used when no baud rate is configured.
const DefaultBaudRate = 9600

// SupportedBaudRates is the fixed set of line speeds accepted on the command line.
var SupportedBaudRates = []int{300, 1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200}

// ValidateBaudRate reports whether rate is one of SupportedBaudRates.
func ValidateBaudRate(rate int) error {
	for _, r := range SupportedBaudRates {
		if r == rate {
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrInvalidBaudRate, rate)
}

// ParseBaudRate parses and validates a baud rate string.
func ParseBaudRate(s string) (int, error) {
	rate, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBaudRate, s)
	}
	if err := ValidateBaudRate(rate); err != nil {
		return 0, err
	}
	return rate, nil
}

// SerialParams is the line configuration applied to a persistent device.
// The baseline profile is raw 8N1 without hardware flow control.
type SerialParams struct {
	BaudRate int
	DataBits int
	Parity   byte // 'N', 'E' or 'O'
	StopBits int
}

// DefaultSerialParams returns the baseline 9600 8N1 profile.
func DefaultSerialParams() SerialParams {
	return SerialParams{
		BaudRate: DefaultBaudRate,
		DataBits: 8,
		Parity:   'N',
		StopBits: 1,
	}
}

// String formats the parameters as "9600 N81".
func (p SerialParams) String() string {
	return fmt.Sprintf("%d %c%d%d", p.BaudRate, p.Parity, p.DataBits, p.StopBits)
}
