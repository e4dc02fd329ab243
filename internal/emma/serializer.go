package emma

// InAppType is the communication format requested from the application layer.
type InAppType string

const (
	InAppStartView  InAppType = "startview"
	InAppAdBall     InAppType = "adball"
	InAppDynamicTab InAppType = "dynamictab"
	InAppBanner     InAppType = "banner"
	InAppStrip      InAppType = "strip"
	InAppNativeAd   InAppType = "nativeAd"
)

// CommunicationType identifies a campaign kind for impression and click
// reporting.
type CommunicationType string

const (
	CommStartView CommunicationType = "startview"
	CommAdBall    CommunicationType = "adball"
	CommBanner    CommunicationType = "banner"
	CommStrip     CommunicationType = "strip"
	CommNativeAd  CommunicationType = "nativeAd"
)

var inAppTypes = map[string]InAppType{
	"startview":  InAppStartView,
	"adball":     InAppAdBall,
	"dynamictab": InAppDynamicTab,
	"banner":     InAppBanner,
	"strip":      InAppStrip,
	"nativead":   InAppNativeAd,
	"nativeAd":   InAppNativeAd,
}

// InAppTypeFromString parses an in-app type name as sent by the application
// layer. ok is false for unknown names.
func InAppTypeFromString(s string) (InAppType, bool) {
	t, ok := inAppTypes[s]
	return t, ok
}

// CommunicationType returns the campaign kind used for impressions and clicks.
// Dynamic tabs have none.
func (t InAppType) CommunicationType() (CommunicationType, bool) {
	switch t {
	case InAppStartView:
		return CommStartView, true
	case InAppAdBall:
		return CommAdBall, true
	case InAppBanner:
		return CommBanner, true
	case InAppStrip:
		return CommStrip, true
	case InAppNativeAd:
		return CommNativeAd, true
	default:
		return "", false
	}
}

// NativeAdToMap normalizes an ad into the field map the application layer
// renders from.
func NativeAdToMap(ad NativeAd) map[string]any {
	params := map[string]any{}
	for k, v := range ad.Params {
		params[k] = v
	}
	fields := map[string]any{}
	for k, v := range ad.Fields {
		fields[k] = v
	}
	return map[string]any{
		"id":         ad.ID,
		"templateId": ad.TemplateID,
		"times":      ad.Times,
		"tag":        ad.Tag,
		"showOn":     ad.ShowOn,
		"cta":        ad.CTA,
		"params":     params,
		"fields":     fields,
	}
}
