package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	httpError "wallet-service/src/pkg/http-error"

	"github.com/gofiber/fiber/v2"
)

// Result is what every usecase method returns.
type Result struct {
	Data  interface{}
	Error error
}

type BaseResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

func Response(data interface{}, message string, code int, ctx *fiber.Ctx) error {
	return ctx.Status(code).JSON(BaseResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ResponseError(err error, ctx *fiber.Ctx) error {
	var coded httpError.StatusCoder
	if errors.As(err, &coded) {
		return ctx.Status(coded.StatusCode()).JSON(BaseResponse{
			Success: false,
			Message: coded.Error(),
			Error:   coded.Payload(),
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(BaseResponse{
			Success: false,
			Message: fiberErr.Message,
		})
	}

	return ctx.Status(fiber.StatusInternalServerError).JSON(BaseResponse{
		Success: false,
		Message: err.Error(),
	})
}

// ConvertString renders any value as JSON for log meta fields.
func ConvertString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case error:
		return t.Error()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}

func ConvertInt(v interface{}) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}
