package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldFile      = "file"
	FieldSheet     = "sheet"
	FieldPart      = "part"
	FieldPipeline  = "pipeline"
	FieldRow       = "row"
	FieldRecords   = "records"
	FieldImportID  = "import_id"
)

// Components defines standard component names
const (
	ComponentParser    = "parser"
	ComponentReconcile = "reconcile"
	ComponentStore     = "store"
)
