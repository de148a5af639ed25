package validation

import "testing"

type sample struct {
	Mode string `mapstructure:"mode" validate:"required,oneof=sequential parallel"`
	N    int    `mapstructure:"n" validate:"gte=0"`
}

func TestValidate_PassesValidStruct(t *testing.T) {
	err := Validate(sample{Mode: "sequential", N: 2})
	if err != nil {
		t.Fatalf("合法结构体应该通过校验，实际错误: %v", err)
	}
}

func TestValidate_RejectsInvalidOneof(t *testing.T) {
	err := Validate(sample{Mode: "bogus", N: 0})
	if err == nil {
		t.Fatal("期望oneof校验失败，但返回了nil")
	}
}

func TestValidate_RejectsNegativeGTE(t *testing.T) {
	err := Validate(sample{Mode: "sequential", N: -1})
	if err == nil {
		t.Fatal("期望gte校验失败，但返回了nil")
	}
}
