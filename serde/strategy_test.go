package serde

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var strategies = map[string]Strategy{
	"interpreted": Interpreted,
	"compiled":    Compiled,
}

const fullSensor = `<item kind="exe">
  <objid>2055</objid>
  <name>Ping</name>
  <status>Up</status>
  <status_raw>3</status_raw>
  <active_raw>-1</active_raw>
  <priority>4</priority>
  <lastvalue_raw>12.5</lastvalue_raw>
  <lastup_raw>36801.5070023148</lastup_raw>
  <interval_raw>60</interval_raw>
  <uptime_raw>999900</uptime_raw>
  <downtime_raw>0.01</downtime_raw>
  <tags>pingsensor  wan </tags>
  <message>OK</message>
  <probe>Local Probe</probe>
</item>`

func mustParse(t *testing.T, s string) *Node {
	t.Helper()
	n, err := ParseString(s)
	require.NoError(t, err)
	return n
}

func TestDecodeFullItem(t *testing.T) {
	for name, s := range strategies {
		t.Run(name, func(t *testing.T) {
			got, err := Decode[testSensor](mustParse(t, fullSensor), s)
			require.NoError(t, err)

			assert.Equal(t, 2055, got.ID)
			assert.Equal(t, "Ping", got.Name)
			assert.Equal(t, testUp, got.Status)
			assert.True(t, got.Active)
			assert.Equal(t, uint8(4), got.Priority)
			require.NotNil(t, got.LastValue)
			assert.Equal(t, 12.5, *got.LastValue)
			require.NotNil(t, got.LastUp)
			assert.Equal(t, time.Date(2000, 10, 2, 12, 10, 5, 0, time.UTC), got.LastUp.Round(time.Second))
			assert.Equal(t, time.Minute, got.Interval)
			require.NotNil(t, got.Uptime)
			assert.InDelta(t, 99.99, *got.Uptime, 1e-9)
			assert.Equal(t, 0.01, got.Downtime)
			assert.Equal(t, []string{"pingsensor", "wan"}, got.Tags)
			require.NotNil(t, got.Message)
			assert.Equal(t, "OK", *got.Message)
			assert.Equal(t, "exe", got.Kind)
			assert.Equal(t, "Local Probe", got.Probe)
		})
	}
}

// minimal holds every mandatory value; each case adds or replaces one element.
const minimal = `<objid>7</objid><status_raw>3</status_raw><active_raw>0</active_raw><priority>3</priority>` +
	`<interval_raw>30</interval_raw><downtime_raw>0</downtime_raw><probe>p</probe>`

func withElement(drop, extra string) string {
	body := minimal
	if drop != "" {
		start := strings.Index(body, "<"+drop+">")
		end := strings.Index(body, "</"+drop+">") + len("</"+drop+">")
		body = body[:start] + body[end:]
	}
	return "<item>" + body + extra + "</item>"
}

func TestMissingAndEmptyValues(t *testing.T) {
	tests := []struct {
		name    string
		xml     string
		wantErr error
		field   string
		check   func(t *testing.T, got testSensor)
	}{
		{
			name:    "missing non-nullable int",
			xml:     withElement("priority", ""),
			wantErr: ErrMissingValue,
			field:   "Priority",
		},
		{
			name:    "empty non-nullable int",
			xml:     withElement("priority", "<priority/>"),
			wantErr: ErrMissingValue,
			field:   "Priority",
		},
		{
			name:    "missing non-nullable bool",
			xml:     withElement("active_raw", ""),
			wantErr: ErrMissingValue,
			field:   "Active",
		},
		{
			name:    "empty non-nullable duration",
			xml:     withElement("interval_raw", "<interval_raw> </interval_raw>"),
			wantErr: ErrMissingValue,
			field:   "Interval",
		},
		{
			name:    "missing enum",
			xml:     withElement("status_raw", ""),
			wantErr: ErrMissingValue,
			field:   "Status",
		},
		{
			name:    "missing required string",
			xml:     withElement("probe", ""),
			wantErr: ErrMissingValue,
			field:   "Probe",
		},
		{
			name:    "empty required string",
			xml:     withElement("probe", "<probe></probe>"),
			wantErr: ErrMissingValue,
			field:   "Probe",
		},
		{
			name: "missing nullable values are nil",
			xml:  withElement("", ""),
			check: func(t *testing.T, got testSensor) {
				assert.Nil(t, got.LastValue)
				assert.Nil(t, got.LastUp)
				assert.Nil(t, got.Uptime)
				assert.Nil(t, got.Tags)
				assert.Nil(t, got.Message)
				assert.Equal(t, "", got.Name)
			},
		},
		{
			name: "empty nullable values are nil",
			xml:  withElement("", "<lastvalue_raw/><lastup_raw></lastup_raw><uptime_raw/><tags>   </tags><message_raw/><name/>"),
			check: func(t *testing.T, got testSensor) {
				assert.Nil(t, got.LastValue)
				assert.Nil(t, got.LastUp)
				assert.Nil(t, got.Uptime)
				assert.Nil(t, got.Tags)
				assert.Nil(t, got.Message)
				assert.Equal(t, "", got.Name)
			},
		},
		{
			name: "present empty candidate wins over later candidate",
			xml:  withElement("", "<message_raw/><message>should not be used</message>"),
			check: func(t *testing.T, got testSensor) {
				assert.Nil(t, got.Message)
			},
		},
		{
			name: "later candidate used when earlier is absent",
			xml:  withElement("", "<message>fallback</message>"),
			check: func(t *testing.T, got testSensor) {
				require.NotNil(t, got.Message)
				assert.Equal(t, "fallback", *got.Message)
			},
		},
	}
	for _, tt := range tests {
		for name, s := range strategies {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				got, err := Decode[testSensor](mustParse(t, tt.xml), s)
				if tt.wantErr != nil {
					require.ErrorIs(t, err, tt.wantErr)
					var convErr *ConversionError
					require.ErrorAs(t, err, &convErr)
					assert.Equal(t, tt.field, convErr.Field)
					assert.NotEmpty(t, convErr.Fragment)
					return
				}
				require.NoError(t, err)
				tt.check(t, got)
			})
		}
	}
}

func TestFormatAndEnumErrors(t *testing.T) {
	tests := []struct {
		name    string
		drop    string
		extra   string
		kind    Kind
		field   string
		raw     string
		typName string
	}{
		{"bad int", "priority", "<priority>high</priority>", FormatError, "Priority", "high", "uint8"},
		{"int overflow", "priority", "<priority>300</priority>", FormatError, "Priority", "300", "uint8"},
		{"bad bool", "active_raw", "<active_raw>maybe</active_raw>", FormatError, "Active", "maybe", "bool"},
		{"bad float", "", "<lastvalue_raw>1,5</lastvalue_raw>", FormatError, "LastValue", "1,5", "float64"},
		{"bad date", "", "<lastup_raw>yesterday</lastup_raw>", FormatError, "LastUp", "yesterday", "time.Time"},
		{"bad converter input", "", "<uptime_raw>99.5%</uptime_raw>", FormatError, "Uptime", "99.5%", "int64"},
		{"unknown enum", "status_raw", "<status_raw>Sideways</status_raw>", EnumMembershipError, "Status", "Sideways", "testStatus"},
		{"unknown enum value", "status_raw", "<status_raw>42</status_raw>", EnumMembershipError, "Status", "42", "testStatus"},
	}
	for _, tt := range tests {
		for name, s := range strategies {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				_, err := Decode[testSensor](mustParse(t, withElement(tt.drop, tt.extra)), s)
				var convErr *ConversionError
				require.ErrorAs(t, err, &convErr)
				assert.Equal(t, tt.kind, convErr.Kind)
				assert.Equal(t, tt.field, convErr.Field)
				assert.Equal(t, tt.raw, convErr.Raw)
				assert.Equal(t, tt.typName, convErr.Type)
				assert.Contains(t, err.Error(), tt.raw)
				assert.Contains(t, convErr.Fragment, "<item>")
			})
		}
	}
}

func TestEnumParsing(t *testing.T) {
	tests := []struct {
		text string
		want testStatus
	}{
		{"Up", testUp},
		{"up", testUp},
		{"3", testUp},
		{"down (acknowledged)", testDown},
		{"Paused (paused by user)", testPausedByUser},
	}
	for _, tt := range tests {
		for name, s := range strategies {
			t.Run(tt.text+"/"+name, func(t *testing.T) {
				got, err := Decode[testSensor](mustParse(t, withElement("status_raw", "<status_raw>"+tt.text+"</status_raw>")), s)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got.Status)
			})
		}
	}
}

func TestDeserializeExisting(t *testing.T) {
	for name, s := range strategies {
		t.Run(name, func(t *testing.T) {
			msg := "old message"
			target := &testSensor{testObject: testObject{ID: 1, Name: "old"}, Message: &msg, Kind: "old kind"}

			err := DecodeInto(mustParse(t, withElement("", `<name>new</name>`)), target, s)
			require.NoError(t, err)

			assert.Equal(t, "new", target.Name)
			assert.Equal(t, 7, target.ID)
			// Absent fields are left alone.
			assert.Equal(t, "old kind", target.Kind)
			require.NotNil(t, target.Message)
			assert.Equal(t, "old message", *target.Message)
			assert.Equal(t, 30*time.Second, target.Interval)

			err = DecodeInto(mustParse(t, withElement("", `<message_raw/>`)), target, s)
			require.NoError(t, err)
			assert.Nil(t, target.Message, "a present empty value clears the field")

			err = DecodeInto(mustParse(t, withElement("probe", "")), target, s)
			assert.ErrorIs(t, err, ErrMissingValue)
		})
	}
}

func TestDeserializeExistingRejectsWrongTarget(t *testing.T) {
	schema, err := SchemaFor[testSensor]()
	require.NoError(t, err)
	for name, s := range strategies {
		t.Run(name, func(t *testing.T) {
			err := s.DeserializeExisting(mustParse(t, "<item/>"), testSensor{}, schema)
			assert.True(t, IsConfigurationError(err))
			err = s.DeserializeExisting(mustParse(t, "<item/>"), (*testSensor)(nil), schema)
			assert.True(t, IsConfigurationError(err))
		})
	}
}

// randomFragment picks, per element, between absent, empty, valid and invalid
// text so that every branch of the conversion rules is reached.
func randomFragment(rng *rand.Rand) string {
	choices := []struct {
		name    string
		valid   []string
		invalid []string
	}{
		{"objid", []string{"1", "2055", "-7"}, []string{"x", "1.5"}},
		{"name", []string{"Ping", " spaced ", "&lt;b&gt;"}, nil},
		{"status_raw", []string{"3", "Up", "down", "Paused (paused by dependency)"}, []string{"Sideways", "99"}},
		{"status", []string{"Up", "Down"}, []string{"Nope"}},
		{"active_raw", []string{"-1", "0", "1", "true", "False"}, []string{"yes"}},
		{"priority", []string{"0", "5", "255"}, []string{"256", "-1"}},
		{"lastvalue_raw", []string{"0", "12.5", "-3e4"}, []string{"12,5"}},
		{"lastup_raw", []string{"36801.5070023148", "0", "45000.25"}, []string{"today", "NaN"}},
		{"interval_raw", []string{"60", "0.5", "3600"}, []string{"1m"}},
		{"uptime_raw", []string{"999900", "0", "10000"}, []string{"99.5"}},
		{"downtime_raw", []string{"0.01", "0"}, []string{"n/a"}},
		{"tags", []string{"a b", " x ", "one"}, nil},
		{"message_raw", []string{"OK", "<![CDATA[x]]>"}, nil},
		{"message", []string{"fallback"}, nil},
		{"probe", []string{"Local Probe"}, nil},
	}

	var sb strings.Builder
	sb.WriteString("<item")
	if rng.Intn(2) == 0 {
		fmt.Fprintf(&sb, ` kind="k%d"`, rng.Intn(3))
	}
	sb.WriteString(">")
	if rng.Intn(2) == 0 {
		sb.WriteString("comment")
	}
	for _, c := range choices {
		switch rng.Intn(10) {
		case 0:
			// absent
		case 1:
			fmt.Fprintf(&sb, "<%s/>", c.name)
		case 2:
			if len(c.invalid) > 0 {
				fmt.Fprintf(&sb, "<%s>%s</%s>", c.name, c.invalid[rng.Intn(len(c.invalid))], c.name)
				continue
			}
			fallthrough
		default:
			fmt.Fprintf(&sb, "<%s>%s</%s>", c.name, c.valid[rng.Intn(len(c.valid))], c.name)
		}
	}
	sb.WriteString("</item>")
	return sb.String()
}

func TestStrategiesAreEquivalent(t *testing.T) {
	schema, err := SchemaFor[testSensor]()
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(20001002))
	successes, failures := 0, 0
	for i := range 2000 {
		doc := randomFragment(rng)
		item := mustParse(t, doc)

		a, errA := Interpreted.Deserialize(item, schema)
		b, errB := Compiled.Deserialize(item, schema)
		require.Equal(t, errA, errB, "fragment %d: %s", i, doc)
		require.Equal(t, a, b, "fragment %d: %s", i, doc)

		msg := "seed"
		existingA := &testSensor{testObject: testObject{ID: i, Name: "seed"}, Message: &msg}
		existingB := &testSensor{testObject: testObject{ID: i, Name: "seed"}, Message: &msg}
		errA = Interpreted.DeserializeExisting(item, existingA, schema)
		errB = Compiled.DeserializeExisting(item, existingB, schema)
		require.Equal(t, errA, errB, "fragment %d: %s", i, doc)
		require.Equal(t, existingA, existingB, "fragment %d: %s", i, doc)

		if errA == nil {
			successes++
		} else {
			failures++
			var convErr *ConversionError
			require.True(t, errors.As(errA, &convErr), "unclassified error %T: %v", errA, errA)
		}
	}
	assert.NotZero(t, successes)
	assert.NotZero(t, failures)
}

func TestMissingValueNamesFirstCandidate(t *testing.T) {
	tests := []struct {
		drop   string
		field  string
		source string
	}{
		{"downtime_raw", "Downtime", "downtime_raw"},
		{"status_raw", "Status", "status_raw"},
		{"probe", "Probe", "probe"},
		{"priority", "Priority", "priority"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			item := mustParse(t, withElement(tt.drop, ""))
			errs := map[string]*ConversionError{}
			for name, s := range strategies {
				_, err := Decode[testSensor](item, s)
				var convErr *ConversionError
				require.ErrorAs(t, err, &convErr, name)
				assert.Equal(t, MissingValue, convErr.Kind, name)
				assert.Equal(t, tt.field, convErr.Field, name)
				assert.Equal(t, tt.source, convErr.Source, name)
				errs[name] = convErr
			}
			assert.Equal(t, errs["interpreted"], errs["compiled"])
		})
	}
}

func TestDecodeIntoRejectsNilTarget(t *testing.T) {
	item := mustParse(t, withElement("", ""))
	for name, s := range strategies {
		t.Run(name, func(t *testing.T) {
			assert.True(t, IsConfigurationError(DecodeInto(item, nil, s)))
			assert.True(t, IsConfigurationError(DecodeInto(item, testSensor{}, s)))
			assert.True(t, IsConfigurationError(DecodeInto(item, (*testSensor)(nil), s)))
		})
	}
}
