package auth

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/chayanin/inventory-api/internal"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock UserRepository for testing
type mockUserRepository struct {
	usersByName   map[string]*User
	usersByID     map[int64]*User
	memberships   map[int64][]BranchMembership // userID -> memberships
	branches      map[int64]bool
	nextID        int64
	returnError   bool
	errorToReturn error
	createError   error
}

func newMockUserRepository() *mockUserRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	branchOne := int64(1)
	owner := &User{ID: 1, Username: "owner", PasswordHash: string(hashedPassword), GlobalRole: GlobalRoleOwner}
	manager := &User{ID: 2, Username: "m1", PasswordHash: string(hashedPassword), GlobalRole: GlobalRoleManager, DefaultBranchID: &branchOne}
	staff := &User{ID: 3, Username: "s1", PasswordHash: string(hashedPassword), GlobalRole: GlobalRoleEmployee}

	return &mockUserRepository{
		usersByName: map[string]*User{
			"owner": owner,
			"m1":    manager,
			"s1":    staff,
		},
		usersByID: map[int64]*User{1: owner, 2: manager, 3: staff},
		memberships: map[int64][]BranchMembership{
			2: {{ID: 1, UserID: 2, BranchID: 1, Role: BranchRoleManager}},
			3: {{ID: 2, UserID: 3, BranchID: 2, Role: BranchRoleStaff}, {ID: 3, UserID: 3, BranchID: 5, Role: BranchRoleStaff}},
		},
		branches: map[int64]bool{1: true, 2: true, 5: true},
		nextID:   10,
	}
}

func (m *mockUserRepository) GetByUsername(username string) (*User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	return m.usersByName[username], nil
}

func (m *mockUserRepository) GetByID(id int64) (*User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	return m.usersByID[id], nil
}

func (m *mockUserRepository) CreateWithMembership(user *User, membership *BranchMembership) error {
	if m.returnError {
		return m.errorToReturn
	}
	if m.createError != nil {
		return m.createError
	}
	m.nextID++
	user.ID = m.nextID
	m.usersByName[user.Username] = user
	m.usersByID[user.ID] = user
	if membership != nil {
		membership.UserID = user.ID
		m.memberships[user.ID] = append(m.memberships[user.ID], *membership)
	}
	return nil
}

func (m *mockUserRepository) FirstMembership(userID int64) (*BranchMembership, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	memberships := m.memberships[userID]
	if len(memberships) == 0 {
		return nil, nil
	}
	first := memberships[0]
	for _, mem := range memberships[1:] {
		if mem.BranchID < first.BranchID {
			first = mem
		}
	}
	return &first, nil
}

func (m *mockUserRepository) BranchExists(branchID int64) (bool, error) {
	if m.returnError {
		return false, m.errorToReturn
	}
	return m.branches[branchID], nil
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockUserRepository
		tokenGen *JWTTokenGenerator
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		tokenGen = NewJWTTokenGenerator("test-secret", 15*time.Minute)
		service = NewService(mockRepo, tokenGen, bcrypt.MinCost, slog.Default())
	})

	ginkgo.Describe("Register", func() {
		ginkgo.Context("when registering an owner", func() {
			ginkgo.It("should create the user without any membership", func() {
				// Given
				dto := RegisterDTO{Username: "boss", Password: "secret", GlobalRole: "owner"}

				// When
				user, err := service.Register(dto)

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(user.ID).To(gomega.BeNumerically(">", 0))
				gomega.Expect(user.GlobalRole).To(gomega.Equal(GlobalRoleOwner))
				gomega.Expect(mockRepo.memberships[user.ID]).To(gomega.BeEmpty())
			})

			ginkgo.It("should accept role strings with mixed case and whitespace", func() {
				dto := RegisterDTO{Username: "boss2", Password: "secret", GlobalRole: "  Owner "}

				user, err := service.Register(dto)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(user.GlobalRole).To(gomega.Equal(GlobalRoleOwner))
			})
		})

		ginkgo.Context("when registering a manager", func() {
			ginkgo.It("should create a MANAGER membership in the given branch", func() {
				branchID := int64(1)
				dto := RegisterDTO{Username: "m2", Password: "secret", GlobalRole: "manager", BranchID: &branchID}

				user, err := service.Register(dto)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				memberships := mockRepo.memberships[user.ID]
				gomega.Expect(memberships).To(gomega.HaveLen(1))
				gomega.Expect(memberships[0].BranchID).To(gomega.Equal(branchID))
				gomega.Expect(memberships[0].Role).To(gomega.Equal(BranchRoleManager))
			})

			ginkgo.It("should require a branch id", func() {
				dto := RegisterDTO{Username: "m2", Password: "secret", GlobalRole: "manager"}

				_, err := service.Register(dto)

				gomega.Expect(err).To(gomega.Equal(internal.ErrBranchRequired))
			})

			ginkgo.It("should reject a nonexistent branch", func() {
				branchID := int64(999)
				dto := RegisterDTO{Username: "m2", Password: "secret", GlobalRole: "manager", BranchID: &branchID}

				_, err := service.Register(dto)

				gomega.Expect(err).To(gomega.Equal(internal.ErrBranchNotFound))
			})
		})

		ginkgo.Context("when registering an employee", func() {
			ginkgo.It("should create a STAFF membership in the given branch", func() {
				branchID := int64(2)
				dto := RegisterDTO{Username: "s2", Password: "secret", GlobalRole: "employee", BranchID: &branchID}

				user, err := service.Register(dto)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				memberships := mockRepo.memberships[user.ID]
				gomega.Expect(memberships).To(gomega.HaveLen(1))
				gomega.Expect(memberships[0].Role).To(gomega.Equal(BranchRoleStaff))
			})
		})

		ginkgo.Context("when input is invalid", func() {
			ginkgo.It("should reject a duplicate username", func() {
				dto := RegisterDTO{Username: "owner", Password: "secret", GlobalRole: "owner"}

				_, err := service.Register(dto)

				gomega.Expect(err).To(gomega.Equal(internal.ErrDuplicateUsername))
			})

			ginkgo.It("should report a duplicate when losing the insert race", func() {
				// the pre-check saw nothing; the unique constraint fired on insert
				mockRepo.createError = internal.ErrDuplicateUsername
				dto := RegisterDTO{Username: "newbie", Password: "secret", GlobalRole: "owner"}

				_, err := service.Register(dto)

				gomega.Expect(err).To(gomega.Equal(internal.ErrDuplicateUsername))
			})

			ginkgo.It("should surface a username lookup failure instead of inserting blind", func() {
				mockRepo.returnError = true
				mockRepo.errorToReturn = errors.New("connection refused")
				dto := RegisterDTO{Username: "newbie", Password: "secret", GlobalRole: "owner"}

				_, err := service.Register(dto)

				appErr, ok := internal.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.StatusCode).To(gomega.Equal(500))
			})

			ginkgo.It("should reject an unknown role", func() {
				dto := RegisterDTO{Username: "x", Password: "secret", GlobalRole: "superadmin"}

				_, err := service.Register(dto)

				gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidRole))
			})

			ginkgo.It("should reject a missing username", func() {
				dto := RegisterDTO{Password: "secret", GlobalRole: "owner"}

				_, err := service.Register(dto)

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("username is required"))
			})

			ginkgo.It("should reject a missing password", func() {
				dto := RegisterDTO{Username: "x", GlobalRole: "owner"}

				_, err := service.Register(dto)

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("password is required"))
			})
		})
	})

	ginkgo.Describe("Login", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return a token carrying the user's identity", func() {
				// Given
				dto := LoginDTO{Username: "m1", Password: "correct_password"}

				// When
				token, err := service.Login(dto)

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(token).ToNot(gomega.BeEmpty())

				claims, err := service.ValidateAccessToken(token)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal(int64(2)))
				gomega.Expect(claims.Subject).To(gomega.Equal("m1"))
				gomega.Expect(claims.GlobalRole).To(gomega.Equal("manager"))
			})

			ginkgo.It("should embed the default branch id when set", func() {
				token, err := service.Login(LoginDTO{Username: "m1", Password: "correct_password"})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := service.ValidateAccessToken(token)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.BranchID).ToNot(gomega.BeNil())
				gomega.Expect(*claims.BranchID).To(gomega.Equal(int64(1)))
			})

			ginkgo.It("should fall back to the lowest-id membership branch", func() {
				// s1 has no default branch but memberships in branches 2 and 5
				token, err := service.Login(LoginDTO{Username: "s1", Password: "correct_password"})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := service.ValidateAccessToken(token)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.BranchID).ToNot(gomega.BeNil())
				gomega.Expect(*claims.BranchID).To(gomega.Equal(int64(2)))
			})

			ginkgo.It("should leave the branch empty for a user with no memberships", func() {
				token, err := service.Login(LoginDTO{Username: "owner", Password: "correct_password"})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := service.ValidateAccessToken(token)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.BranchID).To(gomega.BeNil())
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should return the same error for an unknown username", func() {
				_, err := service.Login(LoginDTO{Username: "nobody", Password: "whatever"})

				gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidCredentials))
			})

			ginkgo.It("should return the same error for a wrong password", func() {
				_, err := service.Login(LoginDTO{Username: "m1", Password: "wrong_password"})

				gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidCredentials))
			})
		})

		ginkgo.Context("when the repository fails", func() {
			ginkgo.It("should not leak the underlying error", func() {
				mockRepo.returnError = true
				mockRepo.errorToReturn = errors.New("connection refused")

				_, err := service.Login(LoginDTO{Username: "m1", Password: "correct_password"})

				gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidCredentials))
			})
		})
	})

	ginkgo.Describe("Token lifecycle", func() {
		ginkgo.It("should reject a token signed with a different secret", func() {
			otherGen := NewJWTTokenGenerator("other-secret", 15*time.Minute)
			user := mockRepo.usersByID[1]

			token, err := otherGen.GenerateAccessToken(user, nil)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			gomega.Expect(err).To(gomega.Equal(ErrInvalidToken))
		})

		ginkgo.It("should reject an expired token", func() {
			expiredGen := &JWTTokenGenerator{Secret: []byte("test-secret"), TokenTTL: -1 * time.Minute}
			user := mockRepo.usersByID[1]

			token, err := expiredGen.GenerateAccessToken(user, nil)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = tokenGen.ValidateToken(token)
			gomega.Expect(err).To(gomega.Equal(ErrTokenExpired))
		})

		ginkgo.It("should reject garbage", func() {
			_, err := service.ValidateAccessToken("not.a.token")
			gomega.Expect(err).To(gomega.Equal(ErrInvalidToken))
		})

		ginkgo.It("should default the ttl to 24 hours", func() {
			gen := NewJWTTokenGenerator("test-secret", 0)
			gomega.Expect(gen.TokenTTL).To(gomega.Equal(24 * time.Hour))
		})
	})
})
