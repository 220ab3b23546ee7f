package core

const (
	HeaderAccept      = "Accept"
	HeaderContentType = "Content-Type"
	HeaderUserAgent   = "User-Agent"
	HeaderLocation    = "Location"
)

const (
	ContentTypeXML  = "text/xml"
	ContentTypeHTML = "text/html"
)

// Server endpoints.
const (
	EndpointTable  = "api/table.xml"
	EndpointStatus = "api/getstatus.xml"
)
