package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/health-signal-classifier/internal/app"
	"github.com/health-signal-classifier/internal/domain"
	"github.com/health-signal-classifier/internal/repository"
)

func (r *root) classifyCommand() *cobra.Command {
	var (
		req      domain.ClassifyRequest
		age      int
		lat, lon float64
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "classify [message]",
		Short: "Classify one health message",
		Long:  "Classify one health message. The message is taken from the arguments, or read from stdin when none are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")
			if message == "" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read message: %w", err)
				}
				message = string(data)
			}
			if strings.TrimSpace(message) == "" {
				return errors.New("message is required")
			}
			req.Message = message

			if cmd.Flags().Changed("age") {
				req.Age = &age
			}
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				req.Location = &domain.GeoPoint{Lat: lat, Lon: lon}
			}
			if err := req.Validate(); err != nil {
				return err
			}

			return r.withApp(cmd.Context(), app.Options{}, func(a *app.App) error {
				result := a.Classifier.Classify(cmd.Context(), req)
				if asJSON {
					if err := printJSON(cmd.OutOrStdout(), result); err != nil {
						return err
					}
				} else {
					printResult(cmd.OutOrStdout(), result)
				}
				if result.PrimaryDiagnosis == domain.ClassificationError {
					return fmt.Errorf("classification failed: %s", result.Error)
				}
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.IntVar(&age, "age", 0, "patient age in years")
	f.StringVar(&req.Gender, "gender", "", "patient gender")
	f.StringVar(&req.City, "city", "", "patient city")
	f.StringVar(&req.Phone, "phone", "", "caller phone number")
	f.Float64Var(&lat, "lat", 0, "latitude")
	f.Float64Var(&lon, "lon", 0, "longitude")
	f.BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func printResult(w io.Writer, result *domain.ClassificationResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", result.ID)
	fmt.Fprintf(tw, "Diagnosis:\t%s\n", result.PrimaryDiagnosis)
	fmt.Fprintf(tw, "Confidence:\t%.2f\n", result.Confidence)
	fmt.Fprintf(tw, "Severity:\t%s\n", result.SeverityAssessment)
	fmt.Fprintf(tw, "Urgency:\t%s\n", result.UrgencyLevel)
	fmt.Fprintf(tw, "Anomaly:\t%t\n", result.AnomalyDetected)
	if len(result.DifferentialDiagnoses) > 0 {
		parts := make([]string, 0, len(result.DifferentialDiagnoses))
		for _, dp := range result.DifferentialDiagnoses {
			parts = append(parts, fmt.Sprintf("%s (%.2f)", dp.Disease, dp.Probability))
		}
		fmt.Fprintf(tw, "Differentials:\t%s\n", strings.Join(parts, ", "))
	}
	if result.Recommendation != "" {
		fmt.Fprintf(tw, "Recommendation:\t%s\n", result.Recommendation)
	}
	if result.Error != "" {
		fmt.Fprintf(tw, "Error:\t%s\n", result.Error)
	}
	tw.Flush()
}

func (r *root) riskCommand() *cobra.Command {
	var (
		city     string
		lat, lon float64
	)

	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Assess environmental risk for a city or coordinates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd.Context(), app.Options{}, func(a *app.App) error {
				var point domain.GeoPoint
				switch {
				case cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon"):
					point = domain.GeoPoint{Lat: lat, Lon: lon}
					if err := point.Validate(); err != nil {
						return err
					}
				case city != "":
					p, ok := a.Tables.CityPoint(city)
					if !ok {
						return fmt.Errorf("unknown city %q", city)
					}
					point = p
				default:
					return errors.New("--city or both --lat and --lon are required")
				}

				predictions := make(map[domain.Diagnosis]float64)
				for _, d := range a.Tables.Diseases() {
					predictions[d] = 0
				}
				profile, err := a.Environment.Assess(cmd.Context(), point, city, predictions)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), profile)
			})
		},
	}
	cmd.Flags().StringVar(&city, "city", "", "known city name")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude")
	return cmd
}

func (r *root) outbreakCommand() *cobra.Command {
	var (
		req                   domain.OutbreakRequest
		lat, lon              float64
		pollution             string
		symptoms              []string
		temperature, humidity float64
		rainfall              float64
	)

	cmd := &cobra.Command{
		Use:   "outbreak",
		Short: "Predict the most likely outbreak for a city or coordinates",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("lat") && flags.Changed("lon") {
				req.Location = &domain.GeoPoint{Lat: lat, Lon: lon}
			}
			if flags.Changed("temperature") && flags.Changed("humidity") && flags.Changed("rainfall") {
				req.Climate = &domain.ClimateReading{Temperature: temperature, Humidity: humidity, Rainfall: rainfall}
			}
			req.PollutionLevel = domain.ContaminationLevel(strings.ToLower(pollution))
			for _, name := range symptoms {
				sym := domain.Symptom(strings.ToLower(strings.TrimSpace(name)))
				if !sym.IsValid() {
					return fmt.Errorf("unknown symptom %q", name)
				}
				req.Symptoms = append(req.Symptoms, sym)
			}
			if err := req.Validate(); err != nil {
				return err
			}

			return r.withApp(cmd.Context(), app.Options{}, func(a *app.App) error {
				prediction, err := a.Outbreak.Predict(cmd.Context(), req)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), prediction)
			})
		},
	}
	cmd.Flags().StringVar(&req.City, "city", "", "known city name")
	cmd.Flags().StringVar(&req.State, "state", "", "state name")
	cmd.Flags().StringVar(&req.District, "district", "", "district name")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude")
	cmd.Flags().IntVar(&req.Population, "population", 0, "population at risk (default 100000)")
	cmd.Flags().StringVar(&pollution, "pollution", "", "pollution level: low, medium, high or critical")
	cmd.Flags().StringSliceVar(&symptoms, "symptoms", nil, "symptoms reported in the area")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "current temperature in Celsius")
	cmd.Flags().Float64Var(&humidity, "humidity", 0, "relative humidity in percent")
	cmd.Flags().Float64Var(&rainfall, "rainfall", 0, "recent rainfall in mm")
	return cmd
}

func (r *root) diseasesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diseases",
		Short: "List the recognised diseases and their key symptoms",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd.Context(), app.Options{}, func(a *app.App) error {
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "DISEASE\tINCUBATION (h)\tPRIMARY SYMPTOMS")
				for _, d := range a.Tables.Diseases() {
					sig, ok := a.Tables.Signature(d)
					if !ok {
						continue
					}
					symptoms := make([]string, 0, len(sig.PrimarySymptoms))
					for _, s := range sig.PrimarySymptoms {
						symptoms = append(symptoms, string(s))
					}
					fmt.Fprintf(tw, "%s\t%d-%d\t%s\n", d, sig.IncubationPeriod.MinHours, sig.IncubationPeriod.MaxHours, strings.Join(symptoms, ", "))
				}
				return tw.Flush()
			})
		},
	}
}

// diagnosisCounter is implemented by both classification stores.
type diagnosisCounter interface {
	CountByDiagnosis(ctx context.Context) ([]repository.DiagnosisCount, error)
}

func (r *root) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show stored classifications per diagnosis",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd.Context(), app.Options{}, func(a *app.App) error {
				counter, ok := a.Classifications.(diagnosisCounter)
				if !ok {
					return errors.New("no classification storage configured")
				}
				counts, err := counter.CountByDiagnosis(cmd.Context())
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "DIAGNOSIS\tCOUNT\tANOMALIES")
				for _, c := range counts {
					fmt.Fprintf(tw, "%s\t%d\t%d\n", c.Diagnosis, c.Count, c.Anomalies)
				}
				return tw.Flush()
			})
		},
	}
}
