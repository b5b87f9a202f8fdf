package auth

import (
	"errors"
	"log/slog"

	"github.com/chayanin/inventory-api/internal"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

// Mock MembershipRepository for testing
type mockMembershipRepository struct {
	memberships   map[int64]map[int64]BranchRole // userID -> branchID -> role
	returnError   bool
	errorToReturn error
}

func newMockMembershipRepository() *mockMembershipRepository {
	return &mockMembershipRepository{
		memberships: map[int64]map[int64]BranchRole{
			2: {1: BranchRoleManager},
			3: {1: BranchRoleStaff, 2: BranchRoleStaff},
		},
	}
}

func (m *mockMembershipRepository) MembershipFor(userID, branchID int64) (*BranchMembership, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	role, ok := m.memberships[userID][branchID]
	if !ok {
		return nil, nil
	}
	return &BranchMembership{UserID: userID, BranchID: branchID, Role: role}, nil
}

var _ = ginkgo.Describe("Authorizer", func() {
	var (
		authorizer *Authorizer
		mockRepo   *mockMembershipRepository

		owner   = &User{ID: 1, Username: "owner", GlobalRole: GlobalRoleOwner}
		manager = &User{ID: 2, Username: "m1", GlobalRole: GlobalRoleManager}
		staff   = &User{ID: 3, Username: "s1", GlobalRole: GlobalRoleEmployee}

		managerRole = BranchRoleManager
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockMembershipRepository()
		authorizer = NewAuthorizer(mockRepo, slog.Default())
	})

	ginkgo.Describe("AuthorizeBranchAccess", func() {
		ginkgo.Context("for an owner", func() {
			ginkgo.It("should allow access without any membership", func() {
				err := authorizer.AuthorizeBranchAccess(owner, 1, &managerRole)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
			})

			ginkgo.It("should allow access even to a branch that does not exist", func() {
				err := authorizer.AuthorizeBranchAccess(owner, 9999, &managerRole)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
			})
		})

		ginkgo.Context("for a non-member", func() {
			ginkgo.It("should deny access", func() {
				err := authorizer.AuthorizeBranchAccess(manager, 2, nil)
				gomega.Expect(err).To(gomega.Equal(internal.ErrNotABranchMember))
			})
		})

		ginkgo.Context("for a member", func() {
			ginkgo.It("should allow any member when no minimum role is required", func() {
				err := authorizer.AuthorizeBranchAccess(staff, 1, nil)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
			})

			ginkgo.It("should allow a manager where MANAGER is required", func() {
				err := authorizer.AuthorizeBranchAccess(manager, 1, &managerRole)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
			})

			ginkgo.It("should deny staff where MANAGER is required", func() {
				err := authorizer.AuthorizeBranchAccess(staff, 1, &managerRole)
				gomega.Expect(err).To(gomega.Equal(internal.ErrInsufficientRole))
			})
		})

		ginkgo.Context("when the lookup fails", func() {
			ginkgo.It("should surface an internal error", func() {
				mockRepo.returnError = true
				mockRepo.errorToReturn = errors.New("db down")

				err := authorizer.AuthorizeBranchAccess(staff, 1, nil)
				gomega.Expect(err).To(gomega.HaveOccurred())
				appErr, ok := internal.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.StatusCode).To(gomega.Equal(500))
			})
		})
	})

	ginkgo.Describe("BranchRoleFor", func() {
		ginkgo.It("should return the member's role", func() {
			role, err := authorizer.BranchRoleFor(manager, 1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(role).To(gomega.Equal(BranchRoleManager))
		})

		ginkgo.It("should fail for a non-member", func() {
			_, err := authorizer.BranchRoleFor(manager, 2)
			gomega.Expect(err).To(gomega.Equal(internal.ErrNotABranchMember))
		})
	})

	ginkgo.Describe("BranchRole ranking", func() {
		ginkgo.It("should rank MANAGER above STAFF", func() {
			gomega.Expect(BranchRoleManager.Meets(BranchRoleStaff)).To(gomega.BeTrue())
			gomega.Expect(BranchRoleStaff.Meets(BranchRoleManager)).To(gomega.BeFalse())
			gomega.Expect(BranchRoleStaff.Meets(BranchRoleStaff)).To(gomega.BeTrue())
			gomega.Expect(BranchRoleManager.Meets(BranchRoleManager)).To(gomega.BeTrue())
		})
	})
})
