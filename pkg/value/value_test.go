package value

import "testing"

func TestTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", NullValue, false},
		{"false", False, false},
		{"true", True, true},
		{"zero", NewNumber(0), false},
		{"negative", NewNumber(-1), true},
		{"empty string", NewString(""), true},
		{"empty array", NewArray(nil), true},
		{"empty object", NewObject(nil), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.v.Truthy(); got != c.want {
				t.Errorf("Truthy() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	nan := NewNumber(nan())
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"null==null", NullValue, NullValue, true},
		{"null!=false", NullValue, False, false},
		{"1==1.0", NewNumber(1), NewNumber(1.0), true},
		{"nan!=nan", nan, nan, false},
		{"str eq", NewString("a"), NewString("a"), true},
		{"arrays eq", NewArray([]Value{NewNumber(1), NewNumber(2)}), NewArray([]Value{NewNumber(1), NewNumber(2)}), true},
		{"arrays diff order", NewArray([]Value{NewNumber(1), NewNumber(2)}), NewArray([]Value{NewNumber(2), NewNumber(1)}), false},
		{"objects key order irrelevant", objFrom("a", 1, "b", 2), objFrom("b", 2, "a", 1), true},
		{"objects missing key", objFrom("a", 1), objFrom("a", 1, "b", 2), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.a.Equal(c.b); got != c.want {
				t.Errorf("Equal() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	if NewNumber(1).Compare(NewNumber(2)) != Less {
		t.Fatal("expected Less")
	}
	if NewString("b").Compare(NewString("a")) != Greater {
		t.Fatal("expected Greater")
	}
	if NewNumber(1).Compare(NewString("1")) != Unordered {
		t.Fatal("expected Unordered for mixed types")
	}
	if NewArray(nil).Compare(NewArray(nil)) != Unordered {
		t.Fatal("expected Unordered for composite types")
	}
}

func objFrom(kv ...interface{}) Value {
	var members []Member
	for i := 0; i < len(kv); i += 2 {
		members = append(members, Member{Key: kv[i].(string), Val: NewNumber(float64(kv[i+1].(int)))})
	}
	return NewObject(members)
}

func nan() float64 {
	var z float64
	return z / z
}
