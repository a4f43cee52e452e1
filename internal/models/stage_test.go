package models

import "testing"

func TestStageSuccessorChain(t *testing.T) {
	order := []Stage{StageApplied, StageScreening, StagePhoneScreen, StageTechnical, StageOnsite, StageFinal, StageOffer}

	for i := 0; i < len(order)-1; i++ {
		next, ok := order[i].Next()
		if !ok {
			t.Fatalf("expected %s to have a successor", order[i])
		}
		if next != order[i+1] {
			t.Fatalf("successor of %s = %s, want %s", order[i], next, order[i+1])
		}
	}
}

func TestOfferHasNoLinearSuccessor(t *testing.T) {
	if _, ok := StageOffer.Next(); ok {
		t.Fatal("offer must not have a linear successor; hiring is a distinct operation")
	}
}

func TestTerminalStagesHaveNoSuccessor(t *testing.T) {
	for _, stage := range []Stage{StageHired, StageRejected, StageWithdrawn} {
		if !stage.IsTerminal() {
			t.Fatalf("expected %s to be terminal", stage)
		}
		if _, ok := stage.Next(); ok {
			t.Fatalf("terminal stage %s must not have a successor", stage)
		}
	}
}

func TestStatusForStage(t *testing.T) {
	cases := []struct {
		stage  Stage
		status ApplicationStatus
		ok     bool
	}{
		{StageHired, ApplicationHired, true},
		{StageRejected, ApplicationRejected, true},
		{StageWithdrawn, ApplicationWithdrawn, true},
		{StageApplied, ApplicationActive, false},
		{StageOffer, ApplicationActive, false},
	}

	for _, tc := range cases {
		status, ok := StatusForStage(tc.stage)
		if ok != tc.ok || status != tc.status {
			t.Fatalf("StatusForStage(%s) = (%s, %v), want (%s, %v)", tc.stage, status, ok, tc.status, tc.ok)
		}
	}
}

func TestAllStagesCoversEnumeration(t *testing.T) {
	if len(AllStages) != 10 {
		t.Fatalf("expected 10 stages, got %d", len(AllStages))
	}
	for _, stage := range AllStages {
		if !stage.Valid() {
			t.Fatalf("stage %s reported invalid", stage)
		}
	}
	if Stage("archived").Valid() {
		t.Fatal("unknown stage must be invalid")
	}
}
