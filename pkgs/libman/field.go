// Package libman implements the libman manifest format: the line grammar,
// the ordered field table and the Index, Package and Library records built
// on top of it.
package libman

import "slices"

// Field is a single key/value line of a manifest.
type Field struct {
	Key   string
	Value string
}

// String returns the field in manifest syntax.
func (f Field) String() string {
	if f.Value == "" {
		return f.Key + ":"
	}
	return f.Key + ": " + f.Value
}

// -----------------------------------------------------------------------------

// FieldSequence is an ordered list of fields with a per-key index.
type FieldSequence struct {
	fields []Field
	byKey  map[string][]Field
}

// NewFieldSequence builds a FieldSequence from fields, preserving their order.
func NewFieldSequence(fields []Field) *FieldSequence {
	seq := &FieldSequence{
		fields: slices.Clone(fields),
		byKey:  make(map[string][]Field),
	}
	for _, f := range seq.fields {
		seq.byKey[f.Key] = append(seq.byKey[f.Key], f)
	}
	return seq
}

// Fields returns all fields in document order.
func (s *FieldSequence) Fields() []Field {
	return slices.Clone(s.fields)
}

// Len returns the number of fields.
func (s *FieldSequence) Len() int {
	return len(s.fields)
}

// ForKey returns the fields with the given key in document order. A missing
// key yields an empty result.
func (s *FieldSequence) ForKey(key string) []Field {
	return slices.Clone(s.byKey[key])
}

// Values is like ForKey but returns only the values.
func (s *FieldSequence) Values(key string) []string {
	found := s.byKey[key]
	ret := make([]string, len(found))
	for i, f := range found {
		ret[i] = f.Value
	}
	return ret
}

// GetAtMostOne returns the field for key if it occurs once. ok is false if
// the key is absent. If the key occurs more than once, the error built by
// invalid is returned; a nil invalid yields a *FieldError.
func (s *FieldSequence) GetAtMostOne(key string, invalid func(reason string) error) (f Field, ok bool, err error) {
	found := s.byKey[key]
	switch len(found) {
	case 0:
		return Field{}, false, nil
	case 1:
		return found[0], true, nil
	}
	return Field{}, false, newInvalid(invalid, `field "`+key+`" provided more than once`)
}

// GetExactlyOne returns the field for key. It fails with the error built by
// invalid if the key is absent or occurs more than once.
func (s *FieldSequence) GetExactlyOne(key string, invalid func(reason string) error) (Field, error) {
	f, ok, err := s.GetAtMostOne(key, invalid)
	if err != nil {
		return Field{}, err
	}
	if !ok {
		return Field{}, newInvalid(invalid, `missing field "`+key+`"`)
	}
	return f, nil
}

func newInvalid(invalid func(string) error, reason string) error {
	if invalid == nil {
		return &FieldError{Reason: reason}
	}
	return invalid(reason)
}
