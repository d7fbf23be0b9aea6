package creds

import (
	"testing"
)

func TestEnvResolver_UnknownSource(t *testing.T) {
	resolver := NewEnvResolver()
	if _, ok := resolver.Lookup("altavista"); ok {
		t.Error("unknown source should not resolve")
	}
}

func TestEnvResolver_BraveToken(t *testing.T) {
	t.Setenv("BRAVE_API_KEY", "bsk-test")

	resolver := NewEnvResolver()
	cred, ok := resolver.Lookup("brave")
	if !ok {
		t.Fatal("expected brave credential to resolve")
	}
	if cred.Token != "bsk-test" {
		t.Errorf("expected token from environment, got %q", cred.Token)
	}
}

func TestEnvResolver_DataForSEORequiresBothParts(t *testing.T) {
	t.Setenv("DATAFORSEO_LOGIN", "user@example.com")
	t.Setenv("DATAFORSEO_PASSWORD", "")

	resolver := NewEnvResolver()
	if _, ok := resolver.Lookup("dataforseo"); ok {
		t.Error("login without password must not resolve")
	}

	t.Setenv("DATAFORSEO_PASSWORD", "secret")
	resolver = NewEnvResolver()
	cred, ok := resolver.Lookup("dataforseo")
	if !ok {
		t.Fatal("expected dataforseo credential to resolve")
	}
	if cred.Login != "user@example.com" || cred.Password != "secret" {
		t.Errorf("unexpected credential: %+v", cred)
	}
}

func TestEnvResolver_OverrideBeatsEnvironment(t *testing.T) {
	t.Setenv("BRAVE_API_KEY", "from-env")

	resolver := NewEnvResolver()
	resolver.SetOverride("brave", Credential{Token: "from-override"})

	cred, ok := resolver.Lookup("brave")
	if !ok {
		t.Fatal("expected brave credential to resolve")
	}
	if cred.Token != "from-override" {
		t.Errorf("override must take precedence, got %q", cred.Token)
	}
}

func TestStaticResolver(t *testing.T) {
	resolver := StaticResolver{"brave": {Token: "x"}}

	if _, ok := resolver.Lookup("dataforseo"); ok {
		t.Error("absent source should not resolve")
	}
	cred, ok := resolver.Lookup("brave")
	if !ok || cred.Token != "x" {
		t.Errorf("expected static credential, got %+v (ok=%v)", cred, ok)
	}
}
