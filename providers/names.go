package providers

const (
	// Identifier for geo.ipify.org.
	NameIPify = "ipify"

	// Identifier for ip-api.com.
	NameIPAPI = "ipapi"

	// Identifier for ipinfo.io.
	NameIPInfo = "ipinfo"

	// Identifier for ipstack.com.
	NameIPStack = "ipstack"

	// Identifier for local MaxMind GeoLite2/GeoIP2 City databases.
	NameMaxmind = "maxmind"
)
