package flow

import "github.com/tos-network/redenvelope/action"

// Messages are the user-facing texts of one action kind.
type Messages struct {
	Loading string
	Success string
	// FailurePrefix precedes the ledger's error detail when execution fails.
	FailurePrefix string
	// Event is the analytics event emitted when the action starts. Empty
	// means the action is not tracked.
	Event string
}

const (
	MsgTimeout         = "请求超时"
	MsgLoginURL        = "登录链接已生成"
	MsgPackageMissing  = "未配置红包合约地址"
	MsgUnknownProvider = "不支持的登录方式: "
)

var messages = map[action.Kind]Messages{
	action.KindLogin: {
		Loading: "正在登录...",
		Success: "登录成功！",
	},
	action.KindFaucet: {
		Loading: "正在请求 SUI...",
		Success: "成功获取 SUI！",
		Event:   "Request SUI",
	},
	action.KindTransfer: {
		Loading:       "正在转账...",
		Success:       "转账成功！",
		FailurePrefix: "转账失败: ",
		Event:         "Transfer SUI",
	},
	action.KindSendEnvelope: {
		Loading:       "正在发送红包...",
		Success:       "红包发送成功！",
		FailurePrefix: "发送红包失败: ",
		Event:         "Send Red Envelope",
	},
	action.KindClaimEnvelope: {
		Loading:       "正在领取红包...",
		Success:       "成功领取红包！",
		FailurePrefix: "领取红包失败: ",
		Event:         "Claim Red Envelope",
	},
}

// MessagesFor returns the texts of kind.
func MessagesFor(kind action.Kind) Messages {
	return messages[kind]
}
