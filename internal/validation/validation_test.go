package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid", email: "player@example.com", wantErr: false},
		{name: "valid with plus", email: "player+tag@example.co.uk", wantErr: false},
		{name: "empty", email: "", wantErr: true},
		{name: "whitespace only", email: "   ", wantErr: true},
		{name: "missing at", email: "playerexample.com", wantErr: true},
		{name: "missing domain", email: "player@", wantErr: true},
		{name: "missing tld", email: "player@example", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid", password: "longenough", wantErr: false},
		{name: "empty", password: "", wantErr: true},
		{name: "too short", password: "short", wantErr: true},
		{name: "exactly eight", password: "12345678", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDisplayName(t *testing.T) {
	tests := []struct {
		name        string
		displayName string
		wantErr     bool
	}{
		{name: "valid", displayName: "Dr House", wantErr: false},
		{name: "empty", displayName: "", wantErr: true},
		{name: "single char", displayName: "X", wantErr: true},
		{name: "too long", displayName: "this display name is way way way too long for us", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDisplayName(tt.displayName)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDisplayName() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidationError{Field: "email", Message: "email is required"}
	if err.Error() != "email: email is required" {
		t.Errorf("Error() = %q", err.Error())
	}
}
