package health

import (
	"reflect"
	"testing"
)

func TestRecommendations_Empty(t *testing.T) {
	got := Recommendations(nil)
	if got == nil {
		t.Fatal("Recommendations(nil) = nil, want empty list")
	}
	if len(got) != 0 {
		t.Errorf("Recommendations(nil) = %v, want empty", got)
	}
}

func TestRecommendations_PreservesOrder(t *testing.T) {
	deds := []Deduction{
		{Points: 25, Category: CategoryCPU, Message: "CPU load high (30.0%)"},
		{Points: 12, Category: CategoryMemory, Message: "RAM usage high (80.0%)"},
		{Points: 20, Category: CategoryZombie, Message: "Zombies: 5 sensor"},
		{Points: 5, Category: CategoryIntegration, Message: `Integration "mqtt" unhealthy`},
		{Points: 30, Category: CategoryBackup, Message: "Latest backup is stale — create a fresh backup"},
	}
	got := Recommendations(deds)
	want := []string{
		"CPU load high (30.0%)",
		"RAM usage high (80.0%)",
		"Zombies: 5 sensor",
		`Integration "mqtt" unhealthy`,
		"Latest backup is stale — create a fresh backup",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Recommendations = %v, want %v", got, want)
	}
}

func TestRecommendations_StableDeduplication(t *testing.T) {
	deds := []Deduction{
		{Points: 5, Category: CategoryIntegration, Message: "Integration flapping"},
		{Points: 5, Category: CategoryIntegration, Message: `Integration "zwave" unhealthy`},
		{Points: 5, Category: CategoryIntegration, Message: "Integration flapping"},
	}
	got := Recommendations(deds)
	want := []string{"Integration flapping", `Integration "zwave" unhealthy`}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Recommendations = %v, want %v (first occurrence kept)", got, want)
	}
}

func TestRecommendations_Deterministic(t *testing.T) {
	deds := []Deduction{
		{Points: 10, Category: CategoryCPU, Message: "a"},
		{Points: 5, Category: CategoryUpdate, Message: "b"},
		{Points: 10, Category: CategoryCPU, Message: "a"},
	}
	first := Recommendations(deds)
	second := Recommendations(deds)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two runs differ: %v vs %v", first, second)
	}
}
