package sheet

// Field names one column of the sheet. The schema is enumerated rather
// than derived from the struct so search and sort behavior never depends
// on field ordering tricks or reflection.
type Field string

const (
	FieldNumber     Field = "number"
	FieldAssignDate Field = "assignDate"
	FieldCategory   Field = "category"
	FieldOwner      Field = "owner"
	FieldStatus     Field = "status"
)

// FieldSpec carries per-column metadata for rendering and searching.
type FieldSpec struct {
	Field      Field
	Title      string
	Searchable bool
}

var fieldSpecs = []FieldSpec{
	{Field: FieldNumber, Title: "Number", Searchable: true},
	{Field: FieldAssignDate, Title: "Assigned", Searchable: true},
	{Field: FieldCategory, Title: "Category", Searchable: true},
	{Field: FieldOwner, Title: "Owner", Searchable: true},
	{Field: FieldStatus, Title: "Status", Searchable: true},
}

// Fields enumerates the schema in display order. The returned slice is
// shared; callers must not mutate it.
func Fields() []FieldSpec {
	return fieldSpecs
}

// Value returns the string form of the field on a row, the form used for
// free-text search and lexicographic sort. The number field yields the
// stored MSISDN, not the localized display form.
func (f Field) Value(n Number) string {
	switch f {
	case FieldNumber:
		return n.MSISDN
	case FieldAssignDate:
		return n.AssignDate
	case FieldCategory:
		return n.Category
	case FieldOwner:
		return n.Owner
	case FieldStatus:
		return string(n.Status)
	}
	return ""
}

// Title returns the column header for the field.
func (f Field) Title() string {
	for _, spec := range fieldSpecs {
		if spec.Field == f {
			return spec.Title
		}
	}
	return string(f)
}
