package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusConflict - 409: 状态冲突.
	StatusConflict = 409
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
	// ErrAccessDenied - 403: 没有权限.
	ErrAccessDenied
)

// 用户相关错误码 (101xxx).
const (
	// ErrUserNotFound - 404: 用户不存在.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 400: 用户已存在.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: 用户密码错误.
	ErrUserPasswordIncorrect
)

// 物业相关错误码 (102xxx).
const (
	// ErrPropertyNotFound - 404: 物业不存在.
	ErrPropertyNotFound int = iota + 102000
	// ErrPropertyAlreadyExist - 400: 物业已存在.
	ErrPropertyAlreadyExist
	// ErrBuildingNotFound - 404: 楼号不存在.
	ErrBuildingNotFound
	// ErrUnitNotFound - 404: 房间不存在.
	ErrUnitNotFound
)

// 租户相关错误码 (103xxx).
const (
	// ErrTenantNotFound - 404: 租户不存在.
	ErrTenantNotFound int = iota + 103000
	// ErrTenantAlreadyExist - 400: 租户已存在.
	ErrTenantAlreadyExist
)

// 维修工单相关错误码 (104xxx).
const (
	// ErrRequestNotFound - 404: 维修工单不存在.
	ErrRequestNotFound int = iota + 104000
	// ErrInvalidTransition - 409: 工单状态不允许该流转.
	ErrInvalidTransition
	// ErrInvalidState - 409: 工单当前状态不允许该操作.
	ErrInvalidState
	// ErrNoRecognizedFields - 400: 更新内容为空.
	ErrNoRecognizedFields
	// ErrInvalidRating - 400: 评分超出范围.
	ErrInvalidRating
	// ErrCategoryNotFound - 404: 维修类别不存在.
	ErrCategoryNotFound
	// ErrConcurrentUpdate - 409: 并发更新冲突.
	ErrConcurrentUpdate
)

// 数据库相关错误码 (105xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)

// 迁移相关错误码 (109xxx).
const (
	// ErrMigrationFailed - 500: 迁移失败.
	ErrMigrationFailed int = iota + 109000
	// ErrConnectionFailed - 500: 连接失败.
	ErrConnectionFailed
)
