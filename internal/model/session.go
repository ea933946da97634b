package model

// DefaultBrandColor は事業者テーマが無い場合のメインカラーです
const DefaultBrandColor = "#a167dc"

// UserProfile はログイン中のクライアントまたは事業者ユーザーです
type UserProfile struct {
	ID        ID       `json:"id"`
	Name      string   `json:"name,omitempty"`
	Email     string   `json:"email,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// RoleProfile はユーザーが切り替えられるロールです (CLIENT, ENTERPRISE, PROFESSIONAL)
type RoleProfile struct {
	Role         string `json:"role"`
	EnterpriseID ID     `json:"enterprise_id,omitempty"`
	Name         string `json:"name,omitempty"`
}

// AuthResponse は OTP 検証や事業者ログインのレスポンスです
type AuthResponse struct {
	Token     string        `json:"token"`
	Client    *UserProfile  `json:"client,omitempty"`
	User      *UserProfile  `json:"user,omitempty"`
	Profiles  []RoleProfile `json:"profiles,omitempty"`
	IsNewUser bool          `json:"is_new_user,omitempty"`
}

// Profile はレスポンスに含まれるユーザーを返します。クライアントを優先します
func (r AuthResponse) Profile() *UserProfile {
	if r.Client != nil {
		return r.Client
	}
	return r.User
}

// Session はプロセス起動時に一度だけ作成し、必要なコンポーネントへ参照で渡します
type Session struct {
	Token        string
	User         *UserProfile
	Profiles     []RoleProfile
	SelectedRole *RoleProfile
	BrandColor   string
}

// NewSession は保存済みの認証情報から Session を作成します
func NewSession(token string, user *UserProfile, brandColor string) *Session {
	if brandColor == "" {
		brandColor = DefaultBrandColor
	}
	return &Session{Token: token, User: user, BrandColor: brandColor}
}

// IsAuthenticated はトークンを保持しているかを返します
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != ""
}

// UserID はログイン中ユーザーの ID を返します
func (s *Session) UserID() string {
	if s == nil || s.User == nil {
		return ""
	}
	return string(s.User.ID)
}

// Login は認証レスポンスを Session に反映します
func (s *Session) Login(resp AuthResponse) {
	if resp.Token != "" {
		s.Token = resp.Token
	}
	if p := resp.Profile(); p != nil {
		s.User = p
	}
	s.Profiles = resp.Profiles
}

// SelectRole は利用するロールを切り替えます
func (s *Session) SelectRole(role RoleProfile) {
	s.SelectedRole = &role
}

// UpdateTheme は事業者のテーマカラーに切り替えます
func (s *Session) UpdateTheme(color string) {
	if color != "" {
		s.BrandColor = color
	}
}

// Logout は認証情報を破棄します。テーマは維持します
func (s *Session) Logout() {
	s.Token = ""
	s.User = nil
	s.Profiles = nil
	s.SelectedRole = nil
}
