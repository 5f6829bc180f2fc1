package apperr

// Code is a machine-readable error code attached to every apperr.Error.
type Code string

const (
	CodeConfigError             Code = "CONFIG_ERROR"
	CodeParseError              Code = "PARSE_ERROR"
	CodeExtractionError         Code = "EXTRACTION_ERROR"
	CodeWriteErrorTransient     Code = "WRITE_ERROR_TRANSIENT"
	CodeWriteErrorPermanent     Code = "WRITE_ERROR_PERMANENT"
	CodeResolverError           Code = "RESOLVER_ERROR"
	CodeCancellationError       Code = "CANCELLATION_ERROR"
)
