package doshii

import (
	"context"
	"net/http"

	"github.com/agentstation/utc"
)

// Member is a loyalty program member.
type Member struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   *Address  `json:"address,omitempty"`
	Ref       string    `json:"ref,omitempty"`
	Points    string    `json:"points,omitempty"`
	Version   string    `json:"version,omitempty"`
	UpdatedAt *utc.Time `json:"updatedAt,omitempty"`
	CreatedAt *utc.Time `json:"createdAt,omitempty"`
}

// Reward is a loyalty reward available to a member.
type Reward struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Type         string `json:"type,omitempty"`
	SurcountType string `json:"surcountType,omitempty"`
	Amount       string `json:"surcountAmount,omitempty"`
	Points       string `json:"points,omitempty"`
}

// Redemption redeems a reward or points against an order.
type Redemption struct {
	OrderID string `json:"orderId"`
	Points  string `json:"points,omitempty"`
	Reward  string `json:"reward,omitempty"`
}

// LoyaltyService wraps the loyalty members API for an organisation.
type LoyaltyService struct {
	service
}

// Members lists every member.
func (s *LoyaltyService) Members(ctx context.Context, opts *ListOptions) ([]Member, error) {
	var out []Member
	if err := s.do(ctx, call{method: http.MethodGet, path: "/members", query: opts.values()}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Member returns one member.
func (s *LoyaltyService) Member(ctx context.Context, memberID string) (*Member, error) {
	return s.member(ctx, memberID, http.MethodGet, nil)
}

// CreateMember enrols a member.
func (s *LoyaltyService) CreateMember(ctx context.Context, member *Member) (*Member, error) {
	var out Member
	if err := s.do(ctx, call{method: http.MethodPost, path: "/members", body: member}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMember changes a member.
func (s *LoyaltyService) UpdateMember(ctx context.Context, memberID string, member *Member) (*Member, error) {
	return s.member(ctx, memberID, http.MethodPut, member)
}

// DeleteMember removes a member.
func (s *LoyaltyService) DeleteMember(ctx context.Context, memberID string) (*Member, error) {
	return s.member(ctx, memberID, http.MethodDelete, nil)
}

// MemberRewards lists the rewards a member can redeem.
func (s *LoyaltyService) MemberRewards(ctx context.Context, memberID string) ([]Reward, error) {
	if err := required("memberID", memberID); err != nil {
		return nil, err
	}
	var out []Reward
	if err := s.do(ctx, call{method: http.MethodGet, path: join("members", memberID, "rewards")}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RedeemReward redeems a reward against an order at a location.
func (s *LoyaltyService) RedeemReward(ctx context.Context, locationID, memberID, rewardID string, r *Redemption) (*Message, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	if err := required("memberID", memberID); err != nil {
		return nil, err
	}
	if err := required("rewardID", rewardID); err != nil {
		return nil, err
	}
	var out Message
	c := call{method: http.MethodPut, path: join("members", memberID, "rewards", rewardID, "redeem"), location: locationID, body: r}
	if err := s.do(ctx, c, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RedeemPoints redeems member points against an order at a location.
func (s *LoyaltyService) RedeemPoints(ctx context.Context, locationID, memberID string, r *Redemption) (*Message, error) {
	if err := required("locationID", locationID); err != nil {
		return nil, err
	}
	if err := required("memberID", memberID); err != nil {
		return nil, err
	}
	var out Message
	c := call{method: http.MethodPut, path: join("members", memberID, "points", "redeem"), location: locationID, body: r}
	if err := s.do(ctx, c, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *LoyaltyService) member(ctx context.Context, memberID, method string, body any) (*Member, error) {
	if err := required("memberID", memberID); err != nil {
		return nil, err
	}
	var out Member
	if err := s.do(ctx, call{method: method, path: join("members", memberID), body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
