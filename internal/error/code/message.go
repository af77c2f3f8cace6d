package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:         "成功",
	ErrUnknown:         "未知错误",
	ErrBind:            "请求参数绑定错误",
	ErrValidation:      "请求参数验证错误",
	ErrTokenInvalid:    "无效的认证令牌",
	ErrTooManyRequests: "请求频率过高",
	ErrAccessDenied:    "没有权限执行该操作",

	// 用户相关错误码
	ErrUserNotFound:          "用户不存在",
	ErrUserAlreadyExist:      "用户已存在",
	ErrUserPasswordIncorrect: "用户密码错误",

	// 物业相关错误码
	ErrPropertyNotFound:     "物业不存在",
	ErrPropertyAlreadyExist: "物业已存在",
	ErrBuildingNotFound:     "楼号不存在",
	ErrUnitNotFound:         "房间不存在",

	// 租户相关错误码
	ErrTenantNotFound:     "租户不存在",
	ErrTenantAlreadyExist: "租户已存在",

	// 维修工单相关错误码
	ErrRequestNotFound:    "维修工单不存在",
	ErrInvalidTransition:  "工单状态不允许该流转",
	ErrInvalidState:       "工单当前状态不允许该操作",
	ErrNoRecognizedFields: "更新内容为空",
	ErrInvalidRating:      "评分必须在1-5之间",
	ErrCategoryNotFound:   "维修类别不存在",
	ErrConcurrentUpdate:   "并发更新冲突",

	// 数据库相关错误码
	ErrDatabase:       "数据库错误",
	ErrRecordNotFound: "记录不存在",

	// 迁移相关错误码
	ErrMigrationFailed:  "迁移失败",
	ErrConnectionFailed: "连接失败",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTokenInvalid:    StatusUnauthorized,
	ErrTooManyRequests: StatusTooManyRequests,
	ErrAccessDenied:    StatusForbidden,

	// 用户相关错误码
	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusBadRequest,
	ErrUserPasswordIncorrect: StatusUnauthorized,

	// 物业相关错误码
	ErrPropertyNotFound:     StatusNotFound,
	ErrPropertyAlreadyExist: StatusBadRequest,
	ErrBuildingNotFound:     StatusNotFound,
	ErrUnitNotFound:         StatusNotFound,

	// 租户相关错误码
	ErrTenantNotFound:     StatusNotFound,
	ErrTenantAlreadyExist: StatusBadRequest,

	// 维修工单相关错误码
	ErrRequestNotFound:    StatusNotFound,
	ErrInvalidTransition:  StatusConflict,
	ErrInvalidState:       StatusConflict,
	ErrNoRecognizedFields: StatusBadRequest,
	ErrInvalidRating:      StatusBadRequest,
	ErrCategoryNotFound:   StatusNotFound,
	ErrConcurrentUpdate:   StatusConflict,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,

	// 迁移相关错误码
	ErrMigrationFailed:  StatusInternalServerError,
	ErrConnectionFailed: StatusInternalServerError,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "未知错误"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
