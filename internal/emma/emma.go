package emma

// Configuration starts an EMMA session.
type Configuration struct {
	SessionKey   string `json:"sessionKey"`
	DebugEnabled bool   `json:"debugEnabled"`
}

type EventRequest struct {
	Token      string         `json:"token"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// InAppRequest asks the SDK to display a non native-ad communication.
type InAppRequest struct {
	Type InAppType `json:"type"`
}

// NativeAdRequest asks the SDK to fetch native ads for a template.
// Results are delivered to the InAppMessageDelegate passed with the request.
type NativeAdRequest struct {
	TemplateID string `json:"templateId"`
	Batch      bool   `json:"batch"`
}

// Order is the checkout started by StartOrder. A non-empty CurrencyCode
// updates the SDK currency before the order begins.
type Order struct {
	ID           string            `json:"orderId"`
	CustomerID   string            `json:"customerId"`
	TotalPrice   float64           `json:"totalPrice"`
	CurrencyCode string            `json:"currencyCode,omitempty"`
	Coupon       *string           `json:"coupon,omitempty"`
	Extras       map[string]string `json:"extras,omitempty"`
}

type Product struct {
	ID       string            `json:"productId"`
	Name     string            `json:"productName"`
	Quantity float64           `json:"quantity"`
	Price    float64           `json:"price"`
	Extras   map[string]string `json:"extras,omitempty"`
}

type NativeAd struct {
	ID         int               `json:"id"`
	TemplateID string            `json:"templateId"`
	Times      int               `json:"times"`
	Tag        string            `json:"tag"`
	ShowOn     string            `json:"showOn"`
	CTA        string            `json:"cta"`
	Params     map[string]string `json:"params,omitempty"`
	Fields     map[string]any    `json:"fields,omitempty"`
}

type Campaign struct {
	ID   int               `json:"id"`
	Type CommunicationType `json:"type"`
}

// Push is a notification opened by the user, as reported by the SDK.
type Push struct {
	ID     string            `json:"id"`
	Params map[string]string `json:"params,omitempty"`
}

// PresentationOptions mirrors the platform bitmask for foreground
// notification presentation.
type PresentationOptions uint32

const (
	PresentBadge PresentationOptions = 1 << iota
	PresentSound
	PresentAlert
)

// InAppMessageDelegate receives in-app campaign and native ad callbacks.
// The SDK may call it from any goroutine.
type InAppMessageDelegate interface {
	OnReceived(ad NativeAd)
	OnBatchNativeAdReceived(ads []NativeAd)
	OnShown(c Campaign)
	OnHide(c Campaign)
	OnClose(c Campaign)
}

// PushDelegate receives push open callbacks.
type PushDelegate interface {
	OnPushOpen(p Push)
}

// SDK is the vendor surface the bridge drives. Every method is fire and
// forget; the SDK owns delivery, batching and retries.
type SDK interface {
	Version() string
	StartSession(cfg Configuration)
	TrackEvent(req EventRequest)
	TrackExtraUserInfo(info map[string]string)
	LoginUser(userID, email string, extras map[string]string)
	RegisterUser(userID, email string, extras map[string]string)
	InAppMessage(req InAppRequest)
	NativeAdMessage(req NativeAdRequest, delegate InAppMessageDelegate)
	StartPushSystem(delegate PushDelegate)
	RegisterToken(token []byte)
	HandlePush(userInfo map[string]any, actionIdentifier string)
	SendImpression(t CommunicationType, campaignID string)
	SendClick(t CommunicationType, campaignID string)
	OpenNativeAd(campaignID string)
	StartOrder(o Order)
	AddProduct(p Product)
	TrackOrder()
	CancelOrder(orderID string)
	RequestTrackingWithIDFA()
	TrackLocation()
}
