package constants

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusDelivered = "delivered"
	OrderStatusIssue     = "issue"
)

// 提现状态常量
const (
	WithdrawStatusPending  = "pending"
	WithdrawStatusApproved = "approved"
	WithdrawStatusRejected = "rejected"
)

// 提现审核动作常量
const (
	WithdrawActionApprove = "approve"
	WithdrawActionReject  = "reject"
)

// 结算币种与本地币种常量
const (
	CurrencyUSD = "USD"
	CurrencySAR = "SAR"
	CurrencyAED = "AED"
)

// 客户国家常量
const (
	CountrySaudiArabia = "Saudi Arabia"
	CountryUAE         = "UAE"
)

// 佣金计算方式常量
const (
	CommissionModeFlat    = "flat"
	CommissionModePercent = "percent"
)

// 队列常量
const (
	QueueDefault           = "default"
	TaskReportExport       = "report:export"
	TaskOrderOutcomeNotify = "order:outcome_notify"
)

// 报表导出范围常量
const (
	ReportScopeAffiliates  = "affiliates"
	ReportScopeOrders      = "orders"
	ReportScopeWithdrawals = "withdrawals"
	ReportScopeAll         = "all"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "tj"
)
