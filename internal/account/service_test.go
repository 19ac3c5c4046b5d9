package account

import (
	"context"
	"errors"
	"testing"
)

type fakeClaimer struct {
	calls int
	err   error
}

func (f *fakeClaimer) ClaimGuest(ctx context.Context, guestUserID, userID string) (int, error) {
	f.calls++
	return 3, f.err
}

func TestClaimGuestRejectsInvalidIdentities(t *testing.T) {
	claimer := &fakeClaimer{}
	svc := NewService(claimer)

	cases := [][2]string{{"", "user-1"}, {"guest:a", ""}, {"guest:a", "guest:b"}}
	for _, c := range cases {
		if _, err := svc.ClaimGuest(context.Background(), c[0], c[1]); !errors.Is(err, ErrInvalidClaim) {
			t.Fatalf("ClaimGuest(%q, %q) error = %v, want ErrInvalidClaim", c[0], c[1], err)
		}
	}
	if claimer.calls != 0 {
		t.Fatalf("expected repo untouched, got %d calls", claimer.calls)
	}
}

func TestClaimGuestPropagatesRepoErrors(t *testing.T) {
	svc := NewService(&fakeClaimer{err: errors.New("boom")})
	if _, err := svc.ClaimGuest(context.Background(), "guest:a", "user-1"); err == nil {
		t.Fatalf("expected error")
	}

	ok := NewService(&fakeClaimer{})
	res, err := ok.ClaimGuest(context.Background(), "guest:a", "user-1")
	if err != nil || res.MigratedAnalyses != 3 {
		t.Fatalf("unexpected result %+v, %v", res, err)
	}
}
