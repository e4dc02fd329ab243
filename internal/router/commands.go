package router

import (
	"strconv"

	"emma-bridge-plugin/internal/emma"
	"emma-bridge-plugin/internal/mainthread"
)

// Call names accepted on the channel.
const (
	MethodGetVersion          = "getEMMAVersion"
	MethodStartSession        = "startSession"
	MethodTrackEvent          = "trackEvent"
	MethodTrackExtraUserInfo  = "trackExtraUserInfo"
	MethodLoginUser           = "loginUser"
	MethodRegisterUser        = "registerUser"
	MethodInAppMessage        = "inAppMessage"
	MethodStartPushSystem     = "startPushSystem"
	MethodSendInAppImpression = "sendInAppImpression"
	MethodSendInAppClick      = "sendInAppClick"
	MethodOpenNativeAd        = "openNativeAd"
	MethodStartOrder          = "startOrder"
	MethodAddProduct          = "addProduct"
	MethodTrackOrder          = "trackOrder"
	MethodCancelOrder         = "cancelOrder"
	MethodRequestTracking     = "requestTrackingWithIdfa"
	MethodTrackUserLocation   = "trackUserLocation"
)

// Field is one required entry of a call's argument bundle.
type Field struct {
	Name    string
	Kind    Kind
	Code    Code
	Message string
}

// PushStarter installs the push lifecycle handlers and starts the vendor
// push system.
type PushStarter interface {
	StartPush()
}

// Env is what a decoded command runs against.
type Env struct {
	SDK  emma.SDK
	UI   mainthread.Dispatcher
	Ads  emma.InAppMessageDelegate
	Push PushStarter
}

// Command is a validated call ready to run. The set is closed: only the
// types in this file implement it.
type Command interface {
	Method() string
	run(env Env) any
}

type operation struct {
	fields []Field
	decode func(args map[string]any) (Command, *Error)
}

var operations = map[string]operation{
	MethodGetVersion: {
		decode: func(map[string]any) (Command, *Error) { return getVersion{}, nil },
	},
	MethodStartSession: {
		fields: []Field{
			{"sessionKey", KindString, CodeBadSessionKey, "Can't find Session Key"},
			{"debugEnabled", KindBool, CodeBadDebugEnabled, "Debug Enabled is not boolean"},
		},
		decode: decodeStartSession,
	},
	MethodTrackEvent: {
		fields: []Field{
			{"eventToken", KindString, CodeBadEventToken, "Can't find Event Token"},
		},
		decode: decodeTrackEvent,
	},
	MethodTrackExtraUserInfo: {
		fields: []Field{
			{"extraUserInfo", KindStringMap, CodeBadExtraUserInfo, "Can't find user arguments"},
		},
		decode: decodeTrackExtraUserInfo,
	},
	MethodLoginUser: {
		fields: []Field{
			{"userId", KindString, CodeBadUserID, "Can't get userId"},
		},
		decode: func(args map[string]any) (Command, *Error) {
			return loginUser{user: decodeUser(args)}, nil
		},
	},
	MethodRegisterUser: {
		fields: []Field{
			{"userId", KindString, CodeBadUserID, "Can't get userId"},
		},
		decode: func(args map[string]any) (Command, *Error) {
			return registerUser{user: decodeUser(args)}, nil
		},
	},
	MethodInAppMessage: {
		fields: []Field{
			{"inAppType", KindString, CodeBadInAppType, "Can't get inAppType"},
		},
		decode: decodeInAppMessage,
	},
	MethodStartPushSystem: {
		decode: func(map[string]any) (Command, *Error) { return startPushSystem{}, nil },
	},
	MethodSendInAppImpression: {
		fields: campaignFields,
		decode: func(args map[string]any) (Command, *Error) {
			c, err := decodeCampaign(args)
			if err != nil {
				return nil, err
			}
			return sendImpression{campaign: c}, nil
		},
	},
	MethodSendInAppClick: {
		fields: campaignFields,
		decode: func(args map[string]any) (Command, *Error) {
			c, err := decodeCampaign(args)
			if err != nil {
				return nil, err
			}
			return sendClick{campaign: c}, nil
		},
	},
	MethodOpenNativeAd: {
		fields: []Field{
			{"id", KindInt, CodeBadCampaignID, "Unknown campaign id"},
		},
		decode: func(args map[string]any) (Command, *Error) {
			id, _ := getInt(args, "id")
			return openNativeAd{campaignID: strconv.Itoa(id)}, nil
		},
	},
	MethodStartOrder: {
		fields: []Field{
			{"orderId", KindString, CodeBadOrderID, "Unknown order id"},
			{"totalPrice", KindNumber, CodeBadPrice, "Unknown total price"},
			{"customerId", KindString, CodeBadCustomerID, "Unknown customer id"},
		},
		decode: decodeStartOrder,
	},
	MethodAddProduct: {
		fields: []Field{
			{"productId", KindString, CodeBadProductID, "Unknown product id"},
			{"productName", KindString, CodeBadProductName, "Unknown product name"},
			{"quantity", KindNumber, CodeBadQuantity, "Unknown quantity"},
			{"price", KindNumber, CodeBadPrice, "Unknown price"},
		},
		decode: decodeAddProduct,
	},
	MethodTrackOrder: {
		decode: func(map[string]any) (Command, *Error) { return trackOrder{}, nil },
	},
	MethodCancelOrder: {
		fields: []Field{
			{"orderId", KindString, CodeBadOrderID, "Unknown order id"},
		},
		decode: func(args map[string]any) (Command, *Error) {
			id, _ := getString(args, "orderId")
			return cancelOrder{orderID: id}, nil
		},
	},
	MethodRequestTracking: {
		decode: func(map[string]any) (Command, *Error) { return requestTracking{}, nil },
	},
	MethodTrackUserLocation: {
		decode: func(map[string]any) (Command, *Error) { return trackLocation{}, nil },
	},
}

var campaignFields = []Field{
	{"type", KindString, CodeBadInAppType, "Unknown inapp type"},
	{"campaignId", KindInt, CodeBadCampaignID, "Unknown campaign id"},
}

// Methods lists every supported call name.
func Methods() []string {
	out := make([]string, 0, len(operations))
	for name := range operations {
		out = append(out, name)
	}
	return out
}

// Schema returns the required fields of a call, in validation order.
func Schema(method string) ([]Field, bool) {
	op, ok := operations[method]
	if !ok {
		return nil, false
	}
	out := make([]Field, len(op.fields))
	copy(out, op.fields)
	return out, true
}

// Decode validates args against the call's schema and builds the command.
// ok is false for unknown methods.
func Decode(method string, args map[string]any) (cmd Command, ok bool, err *Error) {
	op, found := operations[method]
	if !found {
		return nil, false, nil
	}
	if len(op.fields) > 0 && args == nil {
		return nil, true, newError(CodeBadArgs, "Can't find args")
	}
	for _, f := range op.fields {
		if !f.Kind.check(args[f.Name]) {
			return nil, true, newError(f.Code, f.Message)
		}
	}
	cmd, err = op.decode(args)
	return cmd, true, err
}

func decodeStartSession(args map[string]any) (Command, *Error) {
	key, _ := getString(args, "sessionKey")
	debug, _ := getBool(args, "debugEnabled")
	return startSession{cfg: emma.Configuration{SessionKey: key, DebugEnabled: debug}}, nil
}

func decodeTrackEvent(args map[string]any) (Command, *Error) {
	token, _ := getString(args, "eventToken")
	return trackEvent{req: emma.EventRequest{
		Token:      token,
		Attributes: getMap(args, "eventAttributes"),
	}}, nil
}

func decodeTrackExtraUserInfo(args map[string]any) (Command, *Error) {
	return trackExtraUserInfo{info: getStringMap(args, "extraUserInfo")}, nil
}

type user struct {
	id     string
	email  string
	extras map[string]string
}

func decodeUser(args map[string]any) user {
	id, _ := getString(args, "userId")
	return user{
		id:     id,
		email:  getStringDefault(args, "email", ""),
		extras: getStringMap(args, "extras"),
	}
}

func decodeInAppMessage(args map[string]any) (Command, *Error) {
	name, _ := getString(args, "inAppType")
	t, ok := emma.InAppTypeFromString(name)
	if !ok {
		return nil, newError(CodeBadInAppType, "Unknown inapp type")
	}
	if t != emma.InAppNativeAd {
		return inAppMessage{req: emma.InAppRequest{Type: t}}, nil
	}
	templateID, ok := getString(args, "templateId")
	if !ok {
		return nil, newError(CodeBadTemplateID, "Unknown template id in request")
	}
	return nativeAdMessage{req: emma.NativeAdRequest{
		TemplateID: templateID,
		Batch:      getBoolDefault(args, "batch", false),
	}}, nil
}

type campaign struct {
	comm emma.CommunicationType
	id   string
}

func decodeCampaign(args map[string]any) (campaign, *Error) {
	name, _ := getString(args, "type")
	id, _ := getInt(args, "campaignId")
	t, ok := emma.InAppTypeFromString(name)
	if !ok {
		return campaign{}, newError(CodeBadInAppType, "Not supported inapp type")
	}
	comm, ok := t.CommunicationType()
	if !ok {
		return campaign{}, newError(CodeBadCampaignType, "Not supported campaign type")
	}
	return campaign{comm: comm, id: strconv.Itoa(id)}, nil
}

func decodeStartOrder(args map[string]any) (Command, *Error) {
	id, _ := getString(args, "orderId")
	price, _ := getFloat(args, "totalPrice")
	customer, _ := getString(args, "customerId")
	return startOrder{order: emma.Order{
		ID:           id,
		CustomerID:   customer,
		TotalPrice:   price,
		CurrencyCode: getStringDefault(args, "currencyCode", ""),
		Coupon:       getOptionalString(args, "coupon"),
		Extras:       getStringMap(args, "extras"),
	}}, nil
}

func decodeAddProduct(args map[string]any) (Command, *Error) {
	id, _ := getString(args, "productId")
	name, _ := getString(args, "productName")
	qty, _ := getFloat(args, "quantity")
	price, _ := getFloat(args, "price")
	return addProduct{product: emma.Product{
		ID:       id,
		Name:     name,
		Quantity: qty,
		Price:    price,
		Extras:   getStringMap(args, "extras"),
	}}, nil
}

type getVersion struct{}

func (getVersion) Method() string  { return MethodGetVersion }
func (getVersion) run(env Env) any { return env.SDK.Version() }

type startSession struct{ cfg emma.Configuration }

func (startSession) Method() string { return MethodStartSession }
func (c startSession) run(env Env) any {
	env.SDK.StartSession(c.cfg)
	return nil
}

type trackEvent struct{ req emma.EventRequest }

func (trackEvent) Method() string { return MethodTrackEvent }
func (c trackEvent) run(env Env) any {
	env.SDK.TrackEvent(c.req)
	return nil
}

type trackExtraUserInfo struct{ info map[string]string }

func (trackExtraUserInfo) Method() string { return MethodTrackExtraUserInfo }
func (c trackExtraUserInfo) run(env Env) any {
	env.SDK.TrackExtraUserInfo(c.info)
	return nil
}

type loginUser struct{ user user }

func (loginUser) Method() string { return MethodLoginUser }
func (c loginUser) run(env Env) any {
	env.SDK.LoginUser(c.user.id, c.user.email, c.user.extras)
	return nil
}

type registerUser struct{ user user }

func (registerUser) Method() string { return MethodRegisterUser }
func (c registerUser) run(env Env) any {
	env.SDK.RegisterUser(c.user.id, c.user.email, c.user.extras)
	return nil
}

type inAppMessage struct{ req emma.InAppRequest }

func (inAppMessage) Method() string { return MethodInAppMessage }
func (c inAppMessage) run(env Env) any {
	env.SDK.InAppMessage(c.req)
	return nil
}

type nativeAdMessage struct{ req emma.NativeAdRequest }

func (nativeAdMessage) Method() string { return MethodInAppMessage }
func (c nativeAdMessage) run(env Env) any {
	env.SDK.NativeAdMessage(c.req, env.Ads)
	return nil
}

type startPushSystem struct{}

func (startPushSystem) Method() string { return MethodStartPushSystem }
func (startPushSystem) run(env Env) any {
	env.Push.StartPush()
	return nil
}

type sendImpression struct{ campaign campaign }

func (sendImpression) Method() string { return MethodSendInAppImpression }
func (c sendImpression) run(env Env) any {
	env.SDK.SendImpression(c.campaign.comm, c.campaign.id)
	return nil
}

type sendClick struct{ campaign campaign }

func (sendClick) Method() string { return MethodSendInAppClick }
func (c sendClick) run(env Env) any {
	env.SDK.SendClick(c.campaign.comm, c.campaign.id)
	return nil
}

type openNativeAd struct{ campaignID string }

func (openNativeAd) Method() string { return MethodOpenNativeAd }
func (c openNativeAd) run(env Env) any {
	env.SDK.OpenNativeAd(c.campaignID)
	return nil
}

type startOrder struct{ order emma.Order }

func (startOrder) Method() string { return MethodStartOrder }
func (c startOrder) run(env Env) any {
	env.SDK.StartOrder(c.order)
	return nil
}

type addProduct struct{ product emma.Product }

func (addProduct) Method() string { return MethodAddProduct }
func (c addProduct) run(env Env) any {
	env.SDK.AddProduct(c.product)
	return nil
}

type trackOrder struct{}

func (trackOrder) Method() string { return MethodTrackOrder }
func (trackOrder) run(env Env) any {
	env.SDK.TrackOrder()
	return nil
}

type cancelOrder struct{ orderID string }

func (cancelOrder) Method() string { return MethodCancelOrder }
func (c cancelOrder) run(env Env) any {
	env.SDK.CancelOrder(c.orderID)
	return nil
}

// The tracking consent prompt and location tracking touch UI state, so they
// run on the UI context and their outcome is not reported back.

type requestTracking struct{}

func (requestTracking) Method() string { return MethodRequestTracking }
func (requestTracking) run(env Env) any {
	env.UI.Post(env.SDK.RequestTrackingWithIDFA)
	return nil
}

type trackLocation struct{}

func (trackLocation) Method() string { return MethodTrackUserLocation }
func (trackLocation) run(env Env) any {
	env.UI.Post(env.SDK.TrackLocation)
	return nil
}
