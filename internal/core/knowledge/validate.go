package knowledge

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"recipe-assistant/internal/pkg/common"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func recipeValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
			return Difficulty(fl.Field().String()).Valid()
		})
		_ = validate.RegisterValidation("dishtype", func(fl validator.FieldLevel) bool {
			return DishType(fl.Field().String()).Valid()
		})
	})
	return validate
}

// Validate 新增路徑的檢查：名稱、食材、步驟不可為空，時間需大於 0
func Validate(r Recipe) error {
	if strings.TrimSpace(r.Name) == "" {
		return common.NewValidationError("recipe name is required")
	}
	err := recipeValidator().Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
		}
		return common.NewValidationError(strings.Join(msgs, "; "))
	}
	return err
}
