package xerr

// 定义了统一的业务错误码
const (
	SuccessCode = 20000 // 通用成功码

	// --- 客户端请求错误系列 (400xx) ---
	InvalidParamsCode    = 40000 // 无效的请求参数
	ValidationFailedCode = 40001 // 参数验证失败
	FileTooLargeCode     = 40003 // 文件过大
	FileNameInvalidCode  = 40004 // 文件名无效

	// --- 认证与授权错误系列 (401xx) ---
	UnauthorizedCode       = 40100 // 通用未授权
	TokenInvalidCode       = 40101 // Token 无效或过期
	InvalidCredentialsCode = 40102 // 用户名或密码错误

	// --- 资源未找到错误系列 (404xx) ---
	NotFoundCode      = 40400 // 通用资源未找到
	UserNotFoundCode  = 40401 // 用户不存在
	FileNotFoundCode  = 40402 // 文件不存在
	ShareNotFoundCode = 40404 // 分享链接不存在

	// --- 业务逻辑冲突系列 (409xx) ---
	UserAlreadyExistsCode  = 40900 // 用户名已存在
	EmailAlreadyExistsCode = 40901 // 邮箱已存在
	InvalidStateCode       = 40905 // 操作前置条件不满足
	RecipientMissingCode   = 40906 // 分享链接未设置收件人
	OwnerEmailMissingCode  = 40907 // 分享者账号没有邮箱

	// --- 资源已失效系列 (410xx) ---
	ShareExpiredCode = 41000 // 分享链接已过期

	// --- 限流 (429xx) ---
	TooManyRequestsCode = 42900 // 请求过于频繁

	// --- 服务器内部错误系列 (500xx) ---
	InternalServerErrorCode = 50000 // 服务器内部通用错误
	DatabaseErrorCode       = 50001 // 数据库操作失败
	StorageErrorCode        = 50002 // 存储服务操作失败（如MinIO）
	EmailErrorCode          = 50004 // 邮件发送失败

	// --- 依赖服务不可用 (503xx) ---
	UnavailableCode        = 50300 // 依赖服务不可用
	EmailNotConfiguredCode = 50301 // 邮件服务未配置
)
