package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Resolution Errors (R001-R099)
	// ============================================

	"R001": {
		Category: CategoryManifest,
		Message:  "Manifest not found",
		Detail:   "The manifest loader has no manifest for the requested key.",
	},
	"R002": {
		Category: CategoryManifest,
		Message:  "Manifest is malformed",
		Detail:   "The manifest must be a JSON object mapping route identifiers to artifact paths.",
	},
	"R003": {
		Category: CategoryResolve,
		Message:  "Duplicate route definition",
		Detail:   "The same route identifier was registered twice while building one route set.",
	},
	"R004": {
		Category: CategoryResolve,
		Message:  "Artifact reference cannot be normalized",
		Detail:   "The artifact path does not fit the configured build output conventions.",
	},
	"R005": {
		Category: CategoryResolve,
		Message:  "Route definition builder already built",
		Detail:   "A builder has exactly one accumulation cycle. Create a new builder for every resolution.",
	},
	"R006": {
		Category: CategoryValidation,
		Message:  "Unknown route kind",
	},

	// ============================================
	// Config Errors (R100-R119)
	// ============================================

	"R100": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No routedefs.json was found in the project directory.",
	},
	"R101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
}

// Sentinels for errors.Is. They match any RouteError with the same code.
var (
	ErrManifestNotFound = &RouteError{Code: "R001"}
	ErrManifestParse    = &RouteError{Code: "R002"}
	ErrDuplicateRoute   = &RouteError{Code: "R003"}
	ErrNormalization    = &RouteError{Code: "R004"}
	ErrBuilderSpent     = &RouteError{Code: "R005"}
	ErrUnknownKind      = &RouteError{Code: "R006"}
	ErrConfigNotFound   = &RouteError{Code: "R100"}
	ErrConfigInvalid    = &RouteError{Code: "R101"}
)

// Lookup returns the template for a code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
