package sql

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gogo/protobuf/proto"
	errors "gopkg.in/src-d/go-errors.v1"
)

// ErrMalformedTableMeta is returned when decoding a table meta fails.
var ErrMalformedTableMeta = errors.NewKind("malformed table meta: %s")

// StoreType is the storage format of a table.
type StoreType uint8

const (
	CSV StoreType = iota
	Raw
	RCFile
	RowFile
	HCFile
	Trevni
	Parquet
	SequenceFile
	Avro
	TextFile
	Mem
)

var storeTypeNames = []string{
	"CSV",
	"RAW",
	"RCFILE",
	"ROWFILE",
	"HCFILE",
	"TREVNI",
	"PARQUET",
	"SEQUENCEFILE",
	"AVRO",
	"TEXTFILE",
	"MEM",
}

// ParseStoreType matches the given name case-insensitively against the known
// store types.
func ParseStoreType(name string) (StoreType, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range storeTypeNames {
		if n == upper {
			return StoreType(i), nil
		}
	}
	return 0, ErrUnknownStoreType.New(name)
}

func (t StoreType) String() string {
	if int(t) < len(storeTypeNames) {
		return storeTypeNames[t]
	}
	return "UNKNOWN"
}

// TableMeta holds the store type and the options of a table. Its fields are
// only reachable through accessors; the binary form exists only while
// crossing the catalog boundary.
type TableMeta struct {
	storeType StoreType
	options   map[string]string
}

// NewTableMeta creates a table meta. The options map is copied.
func NewTableMeta(storeType StoreType, options map[string]string) *TableMeta {
	m := &TableMeta{storeType: storeType, options: make(map[string]string, len(options))}
	for k, v := range options {
		m.options[k] = v
	}
	return m
}

// StoreType returns the storage format of the table.
func (m *TableMeta) StoreType() StoreType { return m.storeType }

// Option returns the value of the option with the given key and whether it
// was set.
func (m *TableMeta) Option(key string) (string, bool) {
	v, ok := m.options[key]
	return v, ok
}

// OptionOr returns the value of the option with the given key or def.
func (m *TableMeta) OptionOr(key, def string) string {
	if v, ok := m.options[key]; ok {
		return v
	}
	return def
}

// HasOptions returns whether any option is set.
func (m *TableMeta) HasOptions() bool { return len(m.options) > 0 }

// Options returns a copy of all the options.
func (m *TableMeta) Options() map[string]string {
	out := make(map[string]string, len(m.options))
	for k, v := range m.options {
		out[k] = v
	}
	return out
}

// PutOption sets an option.
func (m *TableMeta) PutOption(key, value string) {
	if m.options == nil {
		m.options = make(map[string]string)
	}
	m.options[key] = value
}

// Equal returns whether both metas hold the same store type and options.
func (m *TableMeta) Equal(o *TableMeta) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.storeType != o.storeType || len(m.options) != len(o.options) {
		return false
	}
	for k, v := range m.options {
		if ov, ok := o.options[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

func (m *TableMeta) String() string {
	keys := m.sortedKeys()
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%q", k, m.options[k])
	}
	return fmt.Sprintf("TableMeta(%s, {%s})", m.storeType, strings.Join(pairs, ", "))
}

func (m *TableMeta) sortedKeys() []string {
	keys := make([]string, 0, len(m.options))
	for k := range m.options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// tableProto is the protobuf form of a table meta:
//
//	message TableProto {
//	  StoreType storeType = 1;
//	  repeated KeyValueProto params = 2;
//	}
type tableProto struct {
	StoreType int32            `protobuf:"varint,1,opt,name=storeType,proto3" json:"storeType,omitempty"`
	Params    []*keyValueProto `protobuf:"bytes,2,rep,name=params" json:"params,omitempty"`
}

func (m *tableProto) Reset()         { *m = tableProto{} }
func (m *tableProto) String() string { return proto.CompactTextString(m) }
func (*tableProto) ProtoMessage()    {}

type keyValueProto struct {
	Key   string `protobuf:"bytes,1,opt,name=key,proto3" json:"key,omitempty"`
	Value string `protobuf:"bytes,2,opt,name=value,proto3" json:"value,omitempty"`
}

func (m *keyValueProto) Reset()         { *m = keyValueProto{} }
func (m *keyValueProto) String() string { return proto.CompactTextString(m) }
func (*keyValueProto) ProtoMessage()    {}

// MarshalBinary implements the encoding.BinaryMarshaler interface. Options
// are written sorted by key, so equal metas have equal encodings.
func (m *TableMeta) MarshalBinary() ([]byte, error) {
	pb := &tableProto{StoreType: int32(m.storeType)}
	for _, k := range m.sortedKeys() {
		pb.Params = append(pb.Params, &keyValueProto{Key: k, Value: m.options[k]})
	}
	return proto.Marshal(pb)
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (m *TableMeta) UnmarshalBinary(data []byte) error {
	var pb tableProto
	if err := proto.Unmarshal(data, &pb); err != nil {
		return ErrMalformedTableMeta.Wrap(err, err.Error())
	}

	if pb.StoreType < 0 || int(pb.StoreType) >= len(storeTypeNames) {
		return ErrMalformedTableMeta.New(fmt.Sprintf("store type %d", pb.StoreType))
	}

	m.storeType = StoreType(pb.StoreType)
	m.options = make(map[string]string, len(pb.Params))
	for _, kv := range pb.Params {
		m.options[kv.Key] = kv.Value
	}
	return nil
}
