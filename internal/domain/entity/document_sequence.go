package entity

// DocumentSequence contador de numeración por compañía y tipo de documento.
// CurrentNumber es el último número emitido.
type DocumentSequence struct {
	CompanyID     string
	DocumentType  DocumentType
	Prefix        string
	Suffix        string
	CurrentNumber int64
	NumberLength  int
}
