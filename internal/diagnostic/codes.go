package diagnostic

// Error codes reported by the validator.
const (
	CodeUnknownAlias          = "UnknownAlias"
	CodeDuplicateAlias        = "DuplicateAlias"
	CodeMissingAlias          = "MissingAlias"
	CodeMissingRequiredConfig = "MissingRequiredConfig"
	CodeInvalidConfigValue    = "InvalidConfigValue"
	CodeDuplicateModifier     = "DuplicateModifier"
	CodeInvalidCast           = "InvalidCast"
	CodeUnknownTransform      = "UnknownTransform"
	CodeTransformArity        = "TransformArity"
	CodeSchemaMismatch        = "SchemaMismatch"
	CodeUnknownField          = "UnknownField"
	CodeInvalidQuery          = "InvalidQuery"
	CodeUnknownAggregate      = "UnknownAggregate"
	CodeAggregationType       = "AggregationType"
	CodeMisplacedAggregate    = "MisplacedAggregate"
	CodeElseWithoutCondition  = "ElseWithoutCondition"
	CodeEmptyRules            = "EmptyRules"
)

// Warning codes.
const (
	CodeUnknownConfigKey = "UnknownConfigKey"
	CodeUncheckedColumns = "UncheckedColumns"
	CodeUnusedSource     = "UnusedSource"
)
