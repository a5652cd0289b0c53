package report

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Format is the output format of a report. It implements pflag.Value.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// Formats lists the supported formats, default first.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatCSV}

var _ pflag.Value = (*Format)(nil)

func (f *Format) String() string {
	return string(*f)
}

// Set parses s, accepting any case.
func (f *Format) Set(s string) error {
	for _, known := range Formats {
		if strings.EqualFold(s, string(known)) {
			*f = known
			return nil
		}
	}
	return fmt.Errorf("unsupported format %q, must be one of: %s", s, joinNames(Formats))
}

func (f *Format) Type() string {
	return "format"
}

// SortOrder is the order of report rows. It implements pflag.Value.
type SortOrder string

const (
	SortByName SortOrder = "name"
	SortBySize SortOrder = "size"
)

// SortOrders lists the supported orders, default first.
var SortOrders = []SortOrder{SortByName, SortBySize}

var _ pflag.Value = (*SortOrder)(nil)

func (o *SortOrder) String() string {
	return string(*o)
}

func (o *SortOrder) Set(s string) error {
	for _, known := range SortOrders {
		if strings.EqualFold(s, string(known)) {
			*o = known
			return nil
		}
	}
	return fmt.Errorf("unsupported sort order %q, must be one of: %s", s, joinNames(SortOrders))
}

func (o *SortOrder) Type() string {
	return "order"
}

func joinNames[T ~string](values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}
