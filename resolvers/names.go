package resolvers

const (
	// Identifier for DoH JSON API (application/dns-json).
	NameDNSJSON = "dns_json"

	// Identifier for RFC8484 DoH (application/dns-message).
	NameDNSMessage = "dns_message"
)

const (
	ServerGoogle     = "google"
	ServerCloudflare = "cloudflare"
	ServerQuad9      = "quad9"
)

var knownJSONServers = map[string]string{
	ServerGoogle:     "https://dns.google/resolve",
	ServerCloudflare: "https://cloudflare-dns.com/dns-query",
	ServerQuad9:      "https://dns.quad9.net:5053/dns-query",
}

var knownMessageServers = map[string]string{
	ServerGoogle:     "https://dns.google/dns-query",
	ServerCloudflare: "https://cloudflare-dns.com/dns-query",
	ServerQuad9:      "https://dns.quad9.net/dns-query",
}
