package validator

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// DateLayout 日记日期格式
const DateLayout = "2006-01-02"

var once sync.Once

// Register 在 gin 的校验引擎上注册自定义 tag，可重复调用
func Register() {
	once.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("diarydate", validateDate)
		}
	})
}

func validateDate(fl validator.FieldLevel) bool {
	return IsDate(fl.Field().String())
}

// IsDate 判断字符串是否为合法的 YYYY-MM-DD 日期
func IsDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
