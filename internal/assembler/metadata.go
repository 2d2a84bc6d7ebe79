package assembler

import "github.com/getkin/kin-openapi/openapi3"

const (
	infoTitle       = "AT Protocol XRPC API"
	infoSummary     = "Conversion of AT Protocol's lexicons to OpenAPI's schema format."
	infoDescription = "This section contains HTTP API reference docs for Bluesky and AT Protocol lexicons. " +
		"Generate a bearer token to test API calls directly from the docs."
	// The document is regenerated from the lexicons every time and is not versioned.
	infoVersion = "0.0.0"
)

// Info returns the fixed document metadata. OpenAPI 3.1 added info.summary,
// which openapi3.Info has no field for, so it travels as an extension.
func Info() *openapi3.Info {
	return &openapi3.Info{
		Extensions:  map[string]any{"summary": infoSummary},
		Title:       infoTitle,
		Description: infoDescription,
		Version:     infoVersion,
	}
}

// Servers returns the fixed server list, in display order.
func Servers() openapi3.Servers {
	return openapi3.Servers{
		{
			URL:         "https://public.api.bsky.app/xrpc",
			Description: "Bluesky AppView (Public, No Auth)",
		},
		{
			URL:         "https://pds.example.org/xrpc",
			Description: "Example atproto PDS (Authenticated)",
		},
		{
			URL:         "https://bsky.network/xrpc",
			Description: "Bluesky Relay (Public, No Auth)",
		},
	}
}
