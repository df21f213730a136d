package domain

import "testing"

func TestParseLink(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Link
		wantErr bool
	}{
		{
			name: "voter",
			raw:  "https://fixadat.com/elections/42#voteTok",
			want: Link{Kind: LinkElection, Origin: "https://fixadat.com", ID: 42, Token: "voteTok"},
		},
		{
			name: "brand new with zone",
			raw:  "https://fixadat.com/elections/42?brandNew=true&timeZone=Europe%2FZurich#orgTok",
			want: Link{Kind: LinkElection, Origin: "https://fixadat.com", ID: 42, Token: "orgTok", TimeZone: "Europe/Zurich", BrandNew: true},
		},
		{
			name: "host",
			raw:  "https://squawg.com/events/7?view=host#hostTok",
			want: Link{Kind: LinkEvent, Origin: "https://squawg.com", ID: 7, Token: "hostTok", Host: true},
		},
		{
			name: "under a base path",
			raw:  "http://localhost:9000/app/events/7#g",
			want: Link{Kind: LinkEvent, Origin: "http://localhost:9000/app", ID: 7, Token: "g"},
		},
		{
			name: "relative without token",
			raw:  "/elections/3",
			want: Link{Kind: LinkElection, ID: 3},
		},
		{
			name: "election tab",
			raw:  "https://fixadat.com/elections/42/tally#tok",
			want: Link{Kind: LinkElection, Origin: "https://fixadat.com", ID: 42, Token: "tok"},
		},
		{
			name: "brand new texts tab",
			raw:  "https://fixadat.com/elections/42/texts?brandNew=true#orgTok",
			want: Link{Kind: LinkElection, Origin: "https://fixadat.com", ID: 42, Token: "orgTok", BrandNew: true},
		},
		{
			name: "event tab under a base path",
			raw:  "http://localhost:9000/app/events/7/RSVPs?view=host#hostTok",
			want: Link{Kind: LinkEvent, Origin: "http://localhost:9000/app", ID: 7, Token: "hostTok", Host: true},
		},
		{name: "unknown path", raw: "https://fixadat.com/polls/42#t", wantErr: true},
		{name: "bad id before tab", raw: "https://fixadat.com/elections/abc/tally#t", wantErr: true},
		{name: "too deep", raw: "https://squawg.com/events/7/RSVPs/extra#t", wantErr: true},
		{name: "bad id", raw: "https://fixadat.com/elections/abc#t", wantErr: true},
		{name: "too short", raw: "https://fixadat.com/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLink(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLink(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLink(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestShareLinks(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"voter", VoterLink("https://fixadat.com", 42, "v"), "https://fixadat.com/elections/42#v"},
		{"organizer", OrganizerLink("https://fixadat.com/", 42, "o"), "https://fixadat.com/elections/42#o"},
		{"guest", GuestLink("https://squawg.com", 7, "g"), "https://squawg.com/events/7#g"},
		{"host", HostLink("https://squawg.com", 7, "h"), "https://squawg.com/events/7?view=host#h"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s link = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestLinkStringRoundTrip(t *testing.T) {
	l := Link{Kind: LinkElection, Origin: "https://fixadat.com", ID: 42, Token: "orgTok", TimeZone: "UTC", BrandNew: true}
	got, err := ParseLink(l.String())
	if err != nil {
		t.Fatalf("ParseLink: %v", err)
	}
	if got != l {
		t.Errorf("round trip = %+v, want %+v", got, l)
	}
}

func TestIsOrganizer(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		org      string
		want     bool
	}{
		{"organizer token", "orgTok", "orgTok", true},
		{"voter token", "voteTok", "orgTok", false},
		{"empty fragment", "", "orgTok", false},
		{"organizer token withheld", "voteTok", "", false},
		{"both empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOrganizer(tt.fragment, tt.org); got != tt.want {
				t.Errorf("IsOrganizer(%q, %q) = %v, want %v", tt.fragment, tt.org, got, tt.want)
			}
		})
	}
}

type statusErr int

func (e statusErr) Error() string   { return "status" }
func (e statusErr) HTTPStatus() int { return int(e) }

func TestResolveLoad(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		err        error
		wantState  LoadState
		wantStatus int
	}{
		{"missing token", "", nil, LoadMissingToken, 0},
		{"ready", "t", nil, LoadReady, 0},
		{"gone", "t", statusErr(410), LoadFailed, 410},
		{"transport", "t", ErrMissingToken, LoadFailed, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, status := ResolveLoad(tt.token, tt.err)
			if state != tt.wantState || status != tt.wantStatus {
				t.Errorf("ResolveLoad = (%v, %d), want (%v, %d)", state, status, tt.wantState, tt.wantStatus)
			}
		})
	}
}

func TestStatusTitle(t *testing.T) {
	for code, want := range map[int]string{403: "Forbidden", 404: "Not Found", 410: "Gone", 500: "500"} {
		if got := StatusTitle(code); got != want {
			t.Errorf("StatusTitle(%d) = %q, want %q", code, got, want)
		}
	}
}

func TestLocalizationsGet(t *testing.T) {
	l := Localizations{"save": "Speichern", "blank": ""}
	if got := l.Get("save", "Save"); got != "Speichern" {
		t.Errorf("Get(save) = %q", got)
	}
	if got := l.Get("blank", "Blank"); got != "Blank" {
		t.Errorf("Get(blank) = %q", got)
	}
	var none Localizations
	if got := none.Get("x", "X"); got != "X" {
		t.Errorf("nil Get = %q", got)
	}
}

func TestVisibility(t *testing.T) {
	for _, v := range Visibilities {
		if !ValidVisibility(v) {
			t.Errorf("ValidVisibility(%q) = false", v)
		}
	}
	if ValidVisibility("public") {
		t.Error("visibility is case sensitive")
	}
	if !VisibilityPublic.AcceptsResponses() || VisibilityProtected.AcceptsResponses() || VisibilityPrivate.AcceptsResponses() {
		t.Error("only Public accepts responses")
	}
}
