package netdef

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path"
	"reflect"
	"strconv"
	"strings"
)

// LRPolicy is the learning rate decay schedule token.
type LRPolicy string

const (
	FixedLR LRPolicy = "fixed"
	StepLR  LRPolicy = "step"
	ExpLR   LRPolicy = "exp"
	InvLR   LRPolicy = "inv"
)

// SolverMode selects the compute device of the external framework.
type SolverMode string

const (
	CPUMode SolverMode = "CPU"
	GPUMode SolverMode = "GPU"
)

// SolverParam holds the training hyperparameters which accompany the
// network definition. The external framework reads these once at job start;
// here they are only declared, checked and reported.
type SolverParam struct {
	Net            string
	TestIter       int
	TestInterval   int
	BaseLR         float64
	LRPolicy       LRPolicy
	Gamma          float64
	Power          float64
	StepSize       int
	Momentum       float64
	WeightDecay    float64
	MaxIter        int
	Display        int
	Snapshot       int
	SnapshotPrefix string
	Mode           SolverMode
}

// Validate checks the hyperparameter domains and the policy specific fields.
func (s SolverParam) Validate() error {
	if s.Net == "" {
		return fmt.Errorf("solver: net is required")
	}
	if s.BaseLR <= 0 {
		return fmt.Errorf("solver: base_lr must be > 0: got %g", s.BaseLR)
	}
	if s.MaxIter < 1 {
		return fmt.Errorf("solver: max_iter must be >= 1: got %d", s.MaxIter)
	}
	if s.Momentum < 0 || s.Momentum >= 1 {
		return fmt.Errorf("solver: momentum must be in [0,1): got %g", s.Momentum)
	}
	if s.WeightDecay < 0 {
		return fmt.Errorf("solver: weight_decay must be >= 0: got %g", s.WeightDecay)
	}
	if s.TestIter < 0 || s.TestInterval < 0 || s.Display < 0 || s.Snapshot < 0 {
		return fmt.Errorf("solver: iteration counts cannot be negative")
	}
	switch s.LRPolicy {
	case FixedLR:
	case StepLR:
		if s.StepSize < 1 {
			return fmt.Errorf("solver: step policy needs stepsize >= 1")
		}
		if s.Gamma <= 0 {
			return fmt.Errorf("solver: step policy needs gamma > 0")
		}
	case ExpLR:
		if s.Gamma <= 0 {
			return fmt.Errorf("solver: exp policy needs gamma > 0")
		}
	case InvLR:
		if s.Gamma <= 0 || s.Power <= 0 {
			return fmt.Errorf("solver: inv policy needs gamma and power > 0")
		}
	default:
		return fmt.Errorf("solver: unknown lr_policy %q", s.LRPolicy)
	}
	if s.Mode != CPUMode && s.Mode != GPUMode {
		return fmt.Errorf("solver: unknown solver_mode %q", s.Mode)
	}
	return nil
}

// LearningRate evaluates the declared schedule at the given iteration.
// Settings which fail validation evaluate as the base rate.
func (s SolverParam) LearningRate(iter int) float64 {
	switch s.LRPolicy {
	case StepLR:
		if s.StepSize < 1 {
			return s.BaseLR
		}
		return s.BaseLR * math.Pow(s.Gamma, float64(iter/s.StepSize))
	case ExpLR:
		return s.BaseLR * math.Pow(s.Gamma, float64(iter))
	case InvLR:
		return s.BaseLR * math.Pow(1+s.Gamma*float64(iter), -s.Power)
	default:
		return s.BaseLR
	}
}

// Load solver settings from json file under DataDir
func LoadSolver(name string) (s SolverParam, err error) {
	filePath := path.Join(DataDir, name)
	var f *os.File
	if f, err = os.Open(filePath); err != nil {
		return
	}
	defer f.Close()
	fmt.Println("loading solver settings from", name)
	err = json.NewDecoder(f).Decode(&s)
	return
}

// Save solver settings to json file under DataDir
func (s SolverParam) Save(name string) error {
	filePath := path.Join(DataDir, "."+name)
	f, err := os.Create(filePath)
	if err != nil {
		return err
	}
	fmt.Println("saving solver settings to", name)
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err = enc.Encode(s); err != nil {
		f.Close()
		return err
	}
	f.Close()
	return os.Rename(filePath, path.Join(DataDir, name))
}

func (s SolverParam) Fields() []string {
	st := reflect.TypeOf(s)
	fld := make([]string, st.NumField())
	for i := range fld {
		fld[i] = st.Field(i).Name
	}
	return fld
}

func (s SolverParam) Get(key string) interface{} {
	v := reflect.ValueOf(s)
	return v.FieldByName(key).Interface()
}

func (s SolverParam) SetString(key, val string) (SolverParam, error) {
	v := reflect.ValueOf(&s).Elem()
	f := v.FieldByName(key)
	var err error
	switch f.Type().Kind() {
	case reflect.Int, reflect.Int64:
		var x int64
		if x, err = strconv.ParseInt(val, 10, 64); err == nil {
			f.SetInt(x)
		}
	case reflect.Float64:
		var x float64
		if x, err = strconv.ParseFloat(val, 64); err == nil {
			f.SetFloat(x)
		}
	case reflect.String:
		f.SetString(val)
	default:
		return s, fmt.Errorf("invalid type for SetString: %v", f.Type().Kind())
	}
	return s, err
}

func (s SolverParam) String() string {
	str := []string{"== Solver =="}
	for _, key := range s.Fields() {
		str = append(str, fmt.Sprintf("%-14s: %v", key, s.Get(key)))
	}
	return strings.Join(str, "\n")
}
