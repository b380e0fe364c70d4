// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeResource,
//	    "document type icon not found",
//	    statErr,
//	    map[string]any{
//	        "path":          iconPath,
//	        "document_type": name,
//	    },
//	)
package errors
