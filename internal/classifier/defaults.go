package classifier

// Built-in lists used when the configuration leaves a list empty.
//
//nolint: gochecknoglobals
var (
	// DefaultIgnoreHosts are analytics, tracking and ad hosts. Requests to them are aborted.
	DefaultIgnoreHosts = []string{
		"google-analytics.com",
		"googletagmanager.com",
		"googlesyndication.com",
		"doubleclick.net",
		"adservice.google.",
		"facebook.net",
		"connect.facebook.com",
		"scorecardresearch.com",
		"hotjar.com",
		"sentry.io",
		"nr-data.net",
		"newrelic.com",
		"segment.io",
		"amplitude.com",
		"branch.io",
		"criteo.",
	}

	// DefaultSkipHosts are API and authentication endpoints that never serve media.
	DefaultSkipHosts = []string{
		"api.",
		"auth.",
		"login.",
		"accounts.",
		"oauth",
		"graphql",
	}

	// DefaultRejectExtensions are path suffixes of resources that are never media.
	DefaultRejectExtensions = []string{
		".css", ".js", ".mjs",
		".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico",
		".woff", ".woff2", ".ttf", ".otf", ".eot",
		".html", ".htm",
		".map",
	}

	// DefaultReferencePatterns are CDN host fragments known to carry video.
	// The strict filter only tracks hosts matching one of them.
	DefaultReferencePatterns = []string{
		"akamaized.net",
		"cloudfront.net",
		"fastly.net",
		"llnwd.net",
		"edgecastcdn.net",
	}

	// DefaultReferenceVideoHosts seed the registry on every start.
	DefaultReferenceVideoHosts = []string{
		"vod-adaptive.akamaized.net",
	}

	// DefaultRequiredSegments are path fragments the strict filter requires.
	DefaultRequiredSegments = []string{
		"/segments/",
		"/video/",
		"/vod/",
		"/media/",
		"/hls/",
		"/dash/",
	}

	// DefaultVideoExtensions are path suffixes the strict filter requires.
	DefaultVideoExtensions = []string{
		".mp4", ".m4s", ".m4v", ".webm", ".ts", ".m3u8", ".mpd",
	}

	// DefaultVideoMIMETypes are accepted content-type fragments, matched case-insensitively.
	DefaultVideoMIMETypes = []string{
		"video/mp4",
		"video/webm",
		"video/ogg",
		"video/",
		"application/vnd.apple.mpegurl",
		"application/x-mpegurl",
		"application/dash+xml",
	}

	// PlaylistMIMETypes are manifest types. Manifests are small by nature, so
	// the size heuristic does not apply to them.
	PlaylistMIMETypes = []string{
		"application/vnd.apple.mpegurl",
		"application/x-mpegurl",
		"application/dash+xml",
	}
)

// DefaultSizeThreshold is the byte size above which a video-typed response is
// taken as video rather than a mislabeled audio fragment.
const DefaultSizeThreshold int64 = 2_000_000

// orDefault returns list, or def when list is empty.
func orDefault(list, def []string) []string {
	if len(list) == 0 {
		return def
	}

	return list
}
