package domain

import "strings"

// Platform represents the source platform of a media URL
type Platform string

const (
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformYouTube   Platform = "youtube"
	PlatformUnknown   Platform = "unknown" // URL matched none of the supported sites
)

// Platforms lists the supported platforms in tab order
var Platforms = []Platform{
	PlatformTikTok,
	PlatformInstagram,
	PlatformFacebook,
	PlatformYouTube,
}

// PlatformInfo holds the display data for a platform
type PlatformInfo struct {
	Emoji       string
	Name        string
	Placeholder string
}

// Info returns the display data for the platform. Unrecognized values get the
// generic badge and no placeholder.
func (p Platform) Info() PlatformInfo {
	switch p {
	case PlatformTikTok:
		return PlatformInfo{
			Emoji:       "🎵",
			Name:        "TikTok",
			Placeholder: "Example: https://www.tiktok.com/@username/video/...",
		}
	case PlatformInstagram:
		return PlatformInfo{
			Emoji:       "📸",
			Name:        "Instagram",
			Placeholder: "Example: https://www.instagram.com/p/... or /reel/...",
		}
	case PlatformFacebook:
		return PlatformInfo{
			Emoji:       "📘",
			Name:        "Facebook",
			Placeholder: "Example: https://www.facebook.com/watch/?v=... or fb.watch/...",
		}
	case PlatformYouTube:
		return PlatformInfo{
			Emoji:       "▶️",
			Name:        "YouTube",
			Placeholder: "Example: https://www.youtube.com/watch?v=... or youtu.be/...",
		}
	default:
		return PlatformInfo{
			Emoji: "🎬",
			Name:  "Unknown",
		}
	}
}

// String returns the string representation of Platform
func (p Platform) String() string {
	return string(p)
}

// ValidatePlatform checks if a platform is one of the supported platforms
func ValidatePlatform(platform Platform) bool {
	for _, p := range Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

// DetectPlatform detects the platform from a URL by host substring
func DetectPlatform(url string) Platform {
	url = strings.ToLower(url)

	switch {
	case strings.Contains(url, "tiktok.com"):
		// also covers vt.tiktok.com and vm.tiktok.com short links
		return PlatformTikTok
	case strings.Contains(url, "instagram.com"), strings.Contains(url, "instagr.am"):
		return PlatformInstagram
	case strings.Contains(url, "facebook.com"), strings.Contains(url, "fb.com"), strings.Contains(url, "fb.watch"):
		return PlatformFacebook
	case strings.Contains(url, "youtube.com"), strings.Contains(url, "youtu.be"):
		return PlatformYouTube
	default:
		return PlatformUnknown
	}
}
