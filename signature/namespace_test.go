package signature

import (
	"testing"

	"rainbow/rtype"
)

type fakeValue struct{ n float64 }

func (f fakeValue) TryNumber() (float64, error) { return f.n, nil }

func TestDefineRequiresReturnTypeAndCallback(t *testing.T) {
	ns := NewEmpty[fakeValue]()
	err := ns.Define(func(f *FunctionBuilder[fakeValue]) {
		f.RequiredArg("double", rtype.Num())
		// no Returns(), no Callback()
	})
	if err == nil {
		t.Fatalf("expected Define to fail without a return type or callback")
	}
}

func TestDefineRejectsDuplicateNames(t *testing.T) {
	ns := NewEmpty[fakeValue]()
	define := func() error {
		return ns.Define(func(f *FunctionBuilder[fakeValue]) {
			f.RequiredArg("double", rtype.Num())
			f.Returns(rtype.Num())
			f.Callback(func(a Apply[fakeValue], c Caller[fakeValue]) (fakeValue, error) {
				return fakeValue{}, nil
			})
		})
	}
	if err := define(); err != nil {
		t.Fatalf("first Define failed: %v", err)
	}
	if err := define(); err == nil {
		t.Fatalf("expected second Define of the same name to fail")
	}
}

func TestGetSignatureByName(t *testing.T) {
	ns := NewEmpty[fakeValue]()
	_ = ns.Define(func(f *FunctionBuilder[fakeValue]) {
		f.RequiredArg("double", rtype.Num())
		f.Returns(rtype.Num())
		f.Callback(func(a Apply[fakeValue], c Caller[fakeValue]) (fakeValue, error) {
			return fakeValue{}, nil
		})
	})
	sig, ok := ns.GetSignatureByName("double")
	if !ok {
		t.Fatalf("expected to find signature for 'double'")
	}
	if sig.Name() != "double" {
		t.Fatalf("got name %q", sig.Name())
	}
}

func TestApplyDemandMissingArgument(t *testing.T) {
	ap := Apply[fakeValue]{Symbols: nil}
	if _, err := ap.Demand(0); err == nil {
		t.Fatalf("expected error for missing argument")
	}
}
