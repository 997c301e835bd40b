package model

// Platform names a store the release can be delivered to.
type Platform string

const (
	PlatformSpotify      Platform = "spotify"
	PlatformAppleMusic   Platform = "appleMusic"
	PlatformYouTubeMusic Platform = "youtubeMusic"
	PlatformAmazonMusic  Platform = "amazonMusic"
	PlatformDeezer       Platform = "deezer"
	PlatformTidal        Platform = "tidal"
)

// KnownPlatforms lists the supported stores in display order.
var KnownPlatforms = []Platform{
	PlatformSpotify,
	PlatformAppleMusic,
	PlatformYouTubeMusic,
	PlatformAmazonMusic,
	PlatformDeezer,
	PlatformTidal,
}

// Platforms holds the per-store delivery checkboxes.
type Platforms struct {
	Spotify      bool
	AppleMusic   bool
	YouTubeMusic bool
	AmazonMusic  bool
	Deezer       bool
	Tidal        bool
}

// AllPlatforms returns a Platforms value with every store checked.
func AllPlatforms() Platforms {
	return Platforms{
		Spotify:      true,
		AppleMusic:   true,
		YouTubeMusic: true,
		AmazonMusic:  true,
		Deezer:       true,
		Tidal:        true,
	}
}

// Get returns the checkbox for p. Unknown platforms are false.
func (p Platforms) Get(name Platform) bool {
	if f := p.field(name); f != nil {
		return *f
	}
	return false
}

// Set updates the checkbox for name and reports whether name is known.
func (p *Platforms) Set(name Platform, v bool) bool {
	f := p.field(name)
	if f == nil {
		return false
	}
	*f = v
	return true
}

// Any reports whether at least one store is checked.
func (p Platforms) Any() bool {
	for _, name := range KnownPlatforms {
		if p.Get(name) {
			return true
		}
	}
	return false
}

func (p *Platforms) field(name Platform) *bool {
	switch name {
	case PlatformSpotify:
		return &p.Spotify
	case PlatformAppleMusic:
		return &p.AppleMusic
	case PlatformYouTubeMusic:
		return &p.YouTubeMusic
	case PlatformAmazonMusic:
		return &p.AmazonMusic
	case PlatformDeezer:
		return &p.Deezer
	case PlatformTidal:
		return &p.Tidal
	}
	return nil
}

// Agreement names one of the acknowledgements the artist must accept.
type Agreement string

const (
	AgreementTerms        Agreement = "terms"
	AgreementYouTube      Agreement = "youtubeAck"
	AgreementPromo        Agreement = "promoAck"
	AgreementRights       Agreement = "rightsAck"
	AgreementName         Agreement = "nameAck"
	AgreementDistribution Agreement = "distributionAck"
)

// KnownAgreements lists the acknowledgements in display order.
var KnownAgreements = []Agreement{
	AgreementTerms,
	AgreementYouTube,
	AgreementPromo,
	AgreementRights,
	AgreementName,
	AgreementDistribution,
}

// Agreements holds the six acknowledgement checkboxes.
type Agreements struct {
	Terms        bool
	YouTubeAck   bool
	PromoAck     bool
	RightsAck    bool
	NameAck      bool
	Distribution bool
}

// Get returns the checkbox for name. Unknown names are false.
func (a Agreements) Get(name Agreement) bool {
	if f := a.field(name); f != nil {
		return *f
	}
	return false
}

// Set updates the checkbox for name and reports whether name is known.
func (a *Agreements) Set(name Agreement, v bool) bool {
	f := a.field(name)
	if f == nil {
		return false
	}
	*f = v
	return true
}

func (a *Agreements) field(name Agreement) *bool {
	switch name {
	case AgreementTerms:
		return &a.Terms
	case AgreementYouTube:
		return &a.YouTubeAck
	case AgreementPromo:
		return &a.PromoAck
	case AgreementRights:
		return &a.RightsAck
	case AgreementName:
		return &a.NameAck
	case AgreementDistribution:
		return &a.Distribution
	}
	return nil
}
