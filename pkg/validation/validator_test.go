package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type sample struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

func TestToDetailsUsesJSONNames(t *testing.T) {
	Init()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		t.Fatal("gin validator engine unavailable")
	}

	err := v.Struct(sample{Email: "not-an-email", Password: "short"})
	if err == nil {
		t.Fatal("expected validation errors")
	}
	details := ToDetails(err)
	if details["email"] != "must be a valid email" {
		t.Fatalf("email detail = %q", details["email"])
	}
	if details["password"] != "must be at least 8 characters long" {
		t.Fatalf("password detail = %q", details["password"])
	}
}

func TestToDetailsNil(t *testing.T) {
	if ToDetails(nil) != nil {
		t.Fatal("nil error must produce nil details")
	}
}
