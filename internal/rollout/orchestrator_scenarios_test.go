package rollout

import (
	"context"
	"errors"
	"time"

	cttypes "github.com/aws/aws-sdk-go-v2/service/controltower/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/imamik/lzctl/internal/baseline"
	"github.com/imamik/lzctl/internal/landingzone"
	"github.com/imamik/lzctl/internal/operation"
	"github.com/imamik/lzctl/internal/organization"
	testutil "github.com/imamik/lzctl/internal/testing"
)

type scenario struct {
	tree    *testutil.OrgTree
	fx      *testutil.LandingZoneFixture
	metrics *Metrics
	orch    *Orchestrator
}

func newScenario(tree *testutil.OrgTree, fx *testutil.LandingZoneFixture) *scenario {
	log := GinkgoLogr
	poller := operation.NewPoller(log, operation.WithSleep(func(context.Context, time.Duration) error { return nil }))

	reconciler := landingzone.NewReconciler(fx.Mock, poller, log)
	enumerator := organization.NewEnumerator(tree, log)
	registrar := baseline.NewRegistrar(baseline.NewResolver(tree, fx.Mock, log), fx.Mock, poller, log)
	metrics := NewMetrics()

	return &scenario{
		tree:    tree,
		fx:      fx,
		metrics: metrics,
		orch:    NewOrchestrator(reconciler, enumerator, registrar, metrics, log),
	}
}

func unitNames(results []UnitResult) []string {
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
	}
	return names
}

var _ = Describe("Orchestrator", func() {
	var (
		ctx  context.Context
		tree *testutil.OrgTree
		fx   *testutil.LandingZoneFixture
	)

	BeforeEach(func() {
		ctx = context.Background()
		tree = testutil.NewOrgTree("r-root").
			Add("r-root", "ou-a", "A").
			Add("r-root", "ou-b", "B").
			Add("r-root", "ou-c", "C")
		fx = testutil.NewLandingZoneFixture("us-east-1").
			EnableBaseline("ou-a").
			EnableBaseline("ou-b").
			EnableBaseline("ou-c")
	})

	Context("with a skip list", func() {
		It("resets only the remaining OUs, in enumeration order", func() {
			s := newScenario(tree, fx)

			summary, err := s.orch.Run(ctx, Input{
				Regions: []string{"us-east-1", "eu-west-1"},
				SkipOUs: []string{"A"},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(fx.Resets).To(Equal([]string{
				testutil.BaselineArn("ou-b"),
				testutil.BaselineArn("ou-c"),
			}))
			Expect(unitNames(summary.Units)).To(Equal([]string{"B", "C"}))
			Expect(summary.Discovered).To(Equal(3))
			Expect(summary.Targeted).To(Equal(2))

			By("updating the landing zone before the rollout")
			Expect(fx.GovernedRegions()).To(Equal([]string{"us-east-1", "eu-west-1"}))
			Expect(summary.Regions).NotTo(BeNil())
			Expect(summary.Regions.Added).To(Equal([]string{"eu-west-1"}))
			Expect(summary.Regions.Removed).To(BeEmpty())
			Expect(summary.Regions.Updated).To(BeTrue())
			Expect(summary.Regions.Current).To(Equal([]string{"us-east-1"}))
			Expect(promtestutil.ToFloat64(s.metrics.governedRegions)).To(Equal(2.0))

			succeeded, failed, skipped := summary.Counts()
			Expect([]int{succeeded, failed, skipped}).To(Equal([]int{2, 0, 0}))
			Expect(promtestutil.ToFloat64(s.metrics.unitsTotal.WithLabelValues("succeeded"))).To(Equal(2.0))
			Expect(promtestutil.ToFloat64(s.metrics.lastRunSuccess)).To(Equal(1.0))
		})
	})

	Context("when the regions already match", func() {
		It("skips the update and still rolls out", func() {
			fx = testutil.NewLandingZoneFixture("us-east-1").EnableBaseline("ou-b")
			s := newScenario(tree, fx)

			summary, err := s.orch.Run(ctx, Input{Regions: []string{"us-east-1"}, SkipOUs: []string{"A", "C"}})
			Expect(err).NotTo(HaveOccurred())

			Expect(fx.Updates).To(BeEmpty())
			Expect(summary.Regions.Updated).To(BeFalse())
			Expect(fx.Resets).To(Equal([]string{testutil.BaselineArn("ou-b")}))
		})
	})

	Context("when the landing zone update fails", func() {
		It("aborts before touching any OU", func() {
			fx.UpdateStatuses = []cttypes.LandingZoneOperationStatus{cttypes.LandingZoneOperationStatusFailed}
			fx.UpdateMessage = "manifest rejected"
			s := newScenario(tree, fx)

			summary, err := s.orch.Run(ctx, Input{Regions: []string{"us-east-1", "eu-west-1", "eu-central-1"}})
			Expect(err).To(MatchError(ContainSubstring("manifest rejected")))
			Expect(fx.Resets).To(BeEmpty())
			Expect(tree.ListCalls).To(BeEmpty())
			Expect(summary.Units).To(BeEmpty())
			Expect(summary.Regions.Status).To(Equal(operation.StatusFailed))
			Expect(promtestutil.ToFloat64(s.metrics.governedRegions)).To(Equal(1.0), "gauge keeps the current regions")
			Expect(promtestutil.ToFloat64(s.metrics.lastRunSuccess)).To(Equal(0.0))
		})

		It("aborts when there are several landing zones", func() {
			fx.LandingZoneArns = append(fx.LandingZoneArns, "arn:aws:controltower:eu-west-1:111111111111:landingzone/OTHER")
			s := newScenario(tree, fx)

			_, err := s.orch.Run(ctx, Input{Regions: []string{"eu-west-1"}})
			Expect(err).To(MatchError(landingzone.ErrMultipleLandingZones))
			Expect(fx.Resets).To(BeEmpty())
		})

		It("aborts on an empty region list", func() {
			s := newScenario(tree, fx)

			_, err := s.orch.Run(ctx, Input{})
			Expect(err).To(MatchError(landingzone.ErrNoDesiredRegions))
			Expect(fx.Resets).To(BeEmpty())
		})
	})

	Context("when one OU fails", func() {
		It("continues with the next OU", func() {
			fx.ResetStatuses[testutil.BaselineArn("ou-a")] = []cttypes.BaselineOperationStatus{
				cttypes.BaselineOperationStatusInProgress,
				cttypes.BaselineOperationStatusFailed,
			}
			s := newScenario(tree, fx)

			summary, err := s.orch.Run(ctx, Input{Regions: []string{"us-east-1"}})
			Expect(err).NotTo(HaveOccurred())

			Expect(fx.Resets).To(HaveLen(3))
			Expect(summary.Units[0].Outcome).To(Equal(OutcomeFailed))
			Expect(summary.Units[0].Status).To(Equal(operation.StatusFailed))
			Expect(summary.Units[1].Outcome).To(Equal(OutcomeSucceeded))
			Expect(summary.Units[2].Outcome).To(Equal(OutcomeSucceeded))
			Expect(summary.Failed()).To(HaveLen(1))
		})

		It("skips an OU without an enabled baseline", func() {
			fx = testutil.NewLandingZoneFixture("us-east-1").
				EnableBaseline("ou-a").
				EnableBaseline("ou-c")
			s := newScenario(tree, fx)

			summary, err := s.orch.Run(ctx, Input{Regions: []string{"us-east-1"}})
			Expect(err).NotTo(HaveOccurred())

			Expect(fx.Resets).To(Equal([]string{testutil.BaselineArn("ou-a"), testutil.BaselineArn("ou-c")}))
			Expect(summary.Units[1].Outcome).To(Equal(OutcomeSkipped))
			Expect(summary.Units[1].Message).To(ContainSubstring("no enabled baseline"))
		})

		It("records a failed reset call and moves on", func() {
			fx.ResetErrs[testutil.BaselineArn("ou-b")] = errors.New("ConflictException")
			s := newScenario(tree, fx)

			summary, err := s.orch.Run(ctx, Input{Regions: []string{"us-east-1"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Units[1].Outcome).To(Equal(OutcomeFailed))
			Expect(summary.Units[2].Outcome).To(Equal(OutcomeSucceeded))
		})
	})

	Context("when there is nothing to roll out", func() {
		It("fails when the organization has no OUs", func() {
			s := newScenario(testutil.NewOrgTree("r-root"), fx)

			_, err := s.orch.Run(ctx, Input{Regions: []string{"us-east-1"}})
			Expect(err).To(MatchError(ErrNoUnits))
		})

		It("fails when every OU is skipped", func() {
			s := newScenario(tree, fx)

			_, err := s.orch.Run(ctx, Input{Regions: []string{"us-east-1"}, SkipOUs: []string{"A", "B", "C"}})
			Expect(err).To(MatchError(ErrNoUnitsAfterFilter))
			Expect(fx.Resets).To(BeEmpty())
		})
	})

	Describe("RunRegions", func() {
		It("updates the landing zone without enumerating OUs", func() {
			s := newScenario(tree, fx)

			summary, err := s.orch.RunRegions(ctx, Input{Regions: []string{"eu-central-1"}})
			Expect(err).NotTo(HaveOccurred())

			Expect(fx.GovernedRegions()).To(Equal([]string{"eu-central-1"}))
			Expect(summary.Regions.Removed).To(Equal([]string{"us-east-1"}))
			Expect(tree.ListCalls).To(BeEmpty())
			Expect(fx.Resets).To(BeEmpty())
		})
	})

	Describe("RunRollout", func() {
		It("leaves the landing zone alone", func() {
			s := newScenario(tree, fx)

			summary, err := s.orch.RunRollout(ctx, Input{OnlyOUs: []string{"C"}})
			Expect(err).NotTo(HaveOccurred())

			Expect(fx.Updates).To(BeEmpty())
			Expect(summary.Regions).To(BeNil())
			Expect(fx.Resets).To(Equal([]string{testutil.BaselineArn("ou-c")}))
		})
	})
})
