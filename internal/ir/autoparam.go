package ir

// AutoParamInfo enriches an auto-lifted literal parameter with the column
// it was compared or assigned against, so the generator can consult
// field-info when emitting dialect-specific coercions (spec §3.4).
type AutoParamInfo struct {
	Value          any
	FieldName      string
	TableName      string
	HasField       bool
	SourceTable    int
	HasSourceTable bool
}
