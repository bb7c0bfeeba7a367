package helpers

// API endpoints
const (
	APITypeChart       string = "/gen"
	APITypeChartV1     string = "/api/v1/chart"
	APITypeCache       string = "/cache"
	APITypeCacheInfo   string = "/cache/info"
	APITypeCacheConfig string = "/cache/config"
	APITypeVersion     string = "/api/v1/version"
)

// LinkArrayType is a collection of links
type LinkArrayType struct {
	Links []LinkType `json:"links"`
}

// LinkType is a link
type LinkType struct {
	Rel   string `json:"rel,omitempty"` // REST
	Href  string `json:"href"`
	Title string `json:"title,omitempty"`
}

// GetLink returns a link to an endpoint
func GetLink(rel string, title string, href string) LinkType {
	return LinkType{Rel: rel, Href: href, Title: title}
}
