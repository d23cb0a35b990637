package services

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/hamdaan-dev/taskboard-api/internal/dto"
	"github.com/hamdaan-dev/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

// StatsService computes completion-rate reports for administrators.
type StatsService struct {
	statsRepo    repository.StatsRepository
	userRepo     repository.UserRepository
	teamRepo     repository.TeamRepository
	semesterRepo repository.SemesterRepository
	weekRepo     repository.WeekRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(
	statsRepo repository.StatsRepository,
	userRepo repository.UserRepository,
	teamRepo repository.TeamRepository,
	semesterRepo repository.SemesterRepository,
	weekRepo repository.WeekRepository,
) *StatsService {
	return &StatsService{
		statsRepo:    statsRepo,
		userRepo:     userRepo,
		teamRepo:     teamRepo,
		semesterRepo: semesterRepo,
		weekRepo:     weekRepo,
	}
}

// completionRate is the done/total percentage rounded to one decimal.
func completionRate(done, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(done)/float64(total)*1000) / 10
}

// Overview summarizes all task work, optionally scoped to one semester.
func (s *StatsService) Overview(semesterID *uint64) (*dto.OverviewStats, error) {
	totalUsers, err := s.statsRepo.CountUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	totalSemesters, err := s.statsRepo.CountSemesters()
	if err != nil {
		return nil, fmt.Errorf("failed to count semesters: %w", err)
	}
	totalEvents, err := s.statsRepo.CountEvents(semesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	tally, err := s.statsRepo.TallyTasks(repository.TaskTallyFilter{SemesterID: semesterID})
	if err != nil {
		return nil, fmt.Errorf("failed to tally tasks: %w", err)
	}

	return &dto.OverviewStats{
		TotalUsers:     totalUsers,
		TotalSemesters: totalSemesters,
		TotalEvents:    totalEvents,
		TotalTasks:     tally.Total,
		TasksCompleted: tally.Done,
		TasksPending:   tally.Pending,
		TasksCannotDo:  tally.CannotDo,
		CompletionRate: completionRate(tally.Done, tally.Total),
	}, nil
}

// PerUser reports each member's record over individually assigned tasks,
// best completion rate first. Administrators are left out.
func (s *StatsService) PerUser(semesterID *uint64) ([]dto.UserStats, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	teamNames, err := s.teamNames()
	if err != nil {
		return nil, err
	}

	stats := []dto.UserStats{}
	for i := range users {
		user := &users[i]
		if user.IsAdmin() {
			continue
		}

		tally, err := s.statsRepo.TallyTasks(repository.TaskTallyFilter{
			SemesterID: semesterID,
			AssignedTo: &user.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to tally tasks: %w", err)
		}

		entry := dto.UserStats{
			UserID:         user.ID,
			DisplayName:    user.DisplayName,
			TasksAssigned:  tally.Total,
			TasksCompleted: tally.Done,
			TasksCannotDo:  tally.CannotDo,
			CompletionRate: completionRate(tally.Done, tally.Total),
		}
		if user.TeamID != nil {
			if name, ok := teamNames[*user.TeamID]; ok {
				entry.TeamName = &name
			}
		}
		stats = append(stats, entry)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].CompletionRate != stats[j].CompletionRate {
			return stats[i].CompletionRate > stats[j].CompletionRate
		}
		return stats[i].TasksCompleted > stats[j].TasksCompleted
	})
	return stats, nil
}

// PerTeam reports each team's record over team-assigned tasks, best
// completion rate first.
func (s *StatsService) PerTeam(semesterID *uint64) ([]dto.TeamStats, error) {
	teams, err := s.teamRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	stats := []dto.TeamStats{}
	for i := range teams {
		team := &teams[i]

		memberCount, err := s.statsRepo.CountTeamMembers(team.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count team members: %w", err)
		}
		tally, err := s.statsRepo.TallyTasks(repository.TaskTallyFilter{
			SemesterID:     semesterID,
			AssignedTeamID: &team.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to tally tasks: %w", err)
		}

		stats = append(stats, dto.TeamStats{
			TeamID:         team.ID,
			TeamName:       team.Name,
			MemberCount:    memberCount,
			TasksAssigned:  tally.Total,
			TasksCompleted: tally.Done,
			CompletionRate: completionRate(tally.Done, tally.Total),
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].CompletionRate != stats[j].CompletionRate {
			return stats[i].CompletionRate > stats[j].CompletionRate
		}
		return stats[i].TasksCompleted > stats[j].TasksCompleted
	})
	return stats, nil
}

// PerSemester sizes every semester's schedule and completion record.
func (s *StatsService) PerSemester() ([]dto.SemesterStats, error) {
	semesters, err := s.semesterRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list semesters: %w", err)
	}

	stats := []dto.SemesterStats{}
	for i := range semesters {
		semester := &semesters[i]

		weeksCount, err := s.statsRepo.CountWeeks(semester.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count weeks: %w", err)
		}
		eventsCount, err := s.statsRepo.CountEvents(&semester.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count events: %w", err)
		}
		tally, err := s.statsRepo.TallyTasks(repository.TaskTallyFilter{SemesterID: &semester.ID})
		if err != nil {
			return nil, fmt.Errorf("failed to tally tasks: %w", err)
		}

		stats = append(stats, dto.SemesterStats{
			SemesterID:     semester.ID,
			SemesterName:   semester.Name,
			WeeksCount:     weeksCount,
			EventsCount:    eventsCount,
			TasksCount:     tally.Total,
			TasksCompleted: tally.Done,
			CompletionRate: completionRate(tally.Done, tally.Total),
		})
	}
	return stats, nil
}

// WeeklyActivity reports per-week task volume for one semester.
func (s *StatsService) WeeklyActivity(semesterID uint64) ([]dto.WeeklyActivity, error) {
	if _, err := s.semesterRepo.FindByID(semesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		return nil, fmt.Errorf("failed to find semester: %w", err)
	}

	weeks, err := s.weekRepo.ListBySemester(semesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list weeks: %w", err)
	}

	activity := []dto.WeeklyActivity{}
	for i := range weeks {
		week := &weeks[i]

		tally, err := s.statsRepo.TallyTasks(repository.TaskTallyFilter{WeekID: &week.ID})
		if err != nil {
			return nil, fmt.Errorf("failed to tally tasks: %w", err)
		}

		activity = append(activity, dto.WeeklyActivity{
			WeekNumber:     week.WeekNumber,
			StartDate:      week.StartDate.Format(dateLayout),
			TasksCreated:   tally.Total,
			TasksCompleted: tally.Done,
		})
	}
	return activity, nil
}

func (s *StatsService) teamNames() (map[uint64]string, error) {
	teams, err := s.teamRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	names := make(map[uint64]string, len(teams))
	for _, team := range teams {
		names[team.ID] = team.Name
	}
	return names, nil
}
