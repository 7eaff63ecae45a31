package value

import "testing"

func TestParseJSONPreservesObjectOrder(t *testing.T) {
	v, err := ParseJSON([]byte(`{"z":1,"a":2,"m":3}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	members := v.Members()
	want := []string{"z", "a", "m"}
	if len(members) != len(want) {
		t.Fatalf("got %d members, want %d", len(members), len(want))
	}
	for i, k := range want {
		if members[i].Key != k {
			t.Errorf("member[%d].Key = %q, want %q", i, members[i].Key, k)
		}
	}
}

func TestParseJSONRoundTrip(t *testing.T) {
	in := []byte(`{"a":[1,2.5,"x",true,null],"b":{"c":1}}`)
	v, err := ParseJSON(in)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	out, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	v2, err := ParseJSON(out)
	if err != nil {
		t.Fatalf("ParseJSON(round-trip): %v", err)
	}
	if !v.Equal(v2) {
		t.Errorf("round-trip mismatch: %s != %s", out, in)
	}
}

func TestToInterfaceFromInterface(t *testing.T) {
	v, _ := ParseJSON([]byte(`{"a":1,"b":[1,2,3]}`))
	back, err := FromInterface(v.ToInterface())
	if err != nil {
		t.Fatalf("FromInterface: %v", err)
	}
	if !v.Equal(back) {
		t.Errorf("ToInterface/FromInterface mismatch")
	}
}
