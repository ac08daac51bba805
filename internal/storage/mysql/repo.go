package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"landlordwatch/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// isDup reports a MySQL duplicate-key error (1062), which is how the
// schema's unique keys surface violated uniqueness invariants.
func isDup(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func scanLandlord(row interface{ Scan(...any) error }) (domain.Landlord, error) {
	var l domain.Landlord
	var addr sql.NullString
	err := row.Scan(
		&l.ID, &l.Name, &l.Location, &addr,
		&l.AverageRating, &l.TotalReviews,
		&l.DepositReturnRating, &l.ResponsivenessRating, &l.EthicsRating,
		&l.MaintenanceRating, &l.CommunicationRating,
	)
	if err != nil {
		return domain.Landlord{}, err
	}
	if addr.Valid {
		a := addr.String
		l.Address = &a
	}
	return l, nil
}

func (r *Repo) GetLandlord(ctx context.Context, id int64) (domain.Landlord, error) {
	l, err := scanLandlord(r.db.QueryRowContext(ctx, getLandlordSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Landlord{}, domain.ErrNotFound
	}
	return l, err
}

func (r *Repo) GetLandlordByName(ctx context.Context, name string) (domain.Landlord, error) {
	l, err := scanLandlord(r.db.QueryRowContext(ctx, getLandlordByNameSQL, name))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Landlord{}, domain.ErrNotFound
	}
	return l, err
}

func (r *Repo) CreateLandlord(ctx context.Context, nl domain.NewLandlord) (domain.Landlord, error) {
	res, err := r.db.ExecContext(ctx, insertLandlordSQL, nl.Name, nl.Location, valStr(nl.Address))
	if err != nil {
		if isDup(err) {
			return domain.Landlord{}, fmt.Errorf("landlord %q: %w", nl.Name, domain.ErrConflict)
		}
		return domain.Landlord{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Landlord{}, err
	}
	return r.GetLandlord(ctx, id)
}

func (r *Repo) UpdateLandlordRatings(ctx context.Context, id int64, rs domain.RatingSummary) error {
	_, err := r.db.ExecContext(ctx, updateLandlordRatingsSQL,
		rs.Average, rs.TotalReviews,
		rs.DepositReturn, rs.Responsiveness, rs.Ethics,
		rs.Maintenance, rs.Communication,
		id,
	)
	return err
}

func (r *Repo) SearchLandlords(ctx context.Context, query string) ([]domain.Landlord, error) {
	pat := "%" + strings.ToLower(query) + "%"
	rows, err := r.db.QueryContext(ctx, searchLandlordsSQL, pat, pat)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Landlord
	for rows.Next() {
		l, err := scanLandlord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repo) ListLandlords(ctx context.Context, q domain.ListQuery) ([]domain.Landlord, error) {
	sqlStr := `SELECT` + landlordCols + ` FROM landlords`
	var args []any
	if q.MinRating > 0 {
		sqlStr += ` WHERE average_rating >= ?`
		args = append(args, q.MinRating)
	}
	switch q.SortBy {
	case domain.SortHighestRated:
		sqlStr += ` ORDER BY average_rating DESC, id DESC`
	case domain.SortLowestRated:
		sqlStr += ` ORDER BY average_rating ASC, id DESC`
	case domain.SortMostReviews:
		sqlStr += ` ORDER BY total_reviews DESC, id DESC`
	default:
		// id is a monotonic proxy for recency
		sqlStr += ` ORDER BY id DESC`
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Landlord
	for rows.Next() {
		l, err := scanLandlord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanReview(row interface{ Scan(...any) error }) (domain.Review, error) {
	var rv domain.Review
	var author sql.NullString
	err := row.Scan(
		&rv.ID, &rv.LandlordID, &author, &rv.IsAnonymous,
		&rv.OverallRating, &rv.DepositReturnRating, &rv.ResponsivenessRating,
		&rv.EthicsRating, &rv.MaintenanceRating, &rv.CommunicationRating,
		&rv.Content, &rv.HelpfulVotes, &rv.NotHelpfulVotes, &rv.CreatedAt,
	)
	if err != nil {
		return domain.Review{}, err
	}
	if author.Valid {
		a := author.String
		rv.AuthorName = &a
	}
	return rv, nil
}

func (r *Repo) GetReview(ctx context.Context, id int64) (domain.Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx, getReviewSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv, err
}

func (r *Repo) listReviews(ctx context.Context, sqlStr string, args ...any) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) ListReviewsByLandlord(ctx context.Context, landlordID int64) ([]domain.Review, error) {
	return r.listReviews(ctx, listReviewsByLandlordSQL, landlordID)
}

func (r *Repo) ListReviews(ctx context.Context) ([]domain.Review, error) {
	return r.listReviews(ctx, listReviewsSQL)
}

func (r *Repo) CreateReview(ctx context.Context, nr domain.NewReview) (domain.Review, error) {
	res, err := r.db.ExecContext(ctx, insertReviewSQL,
		nr.LandlordID, valStr(nr.AuthorName), nr.IsAnonymous,
		nr.OverallRating, nr.DepositReturnRating, nr.ResponsivenessRating,
		nr.EthicsRating, nr.MaintenanceRating, nr.CommunicationRating,
		nr.Content,
	)
	if err != nil {
		return domain.Review{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Review{}, err
	}
	// re-read for the server-assigned timestamp
	return r.GetReview(ctx, id)
}

func (r *Repo) CreateVote(ctx context.Context, nv domain.NewVote) (domain.Vote, error) {
	res, err := r.db.ExecContext(ctx, insertVoteSQL, nv.ReviewID, nv.VoterID, nv.IsHelpful)
	if err != nil {
		if isDup(err) {
			return domain.Vote{}, fmt.Errorf("vote on review %d: %w", nv.ReviewID, domain.ErrConflict)
		}
		return domain.Vote{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Vote{}, err
	}
	return domain.Vote{ID: id, ReviewID: nv.ReviewID, VoterID: nv.VoterID, IsHelpful: nv.IsHelpful}, nil
}

func (r *Repo) IncrementVote(ctx context.Context, reviewID int64, helpful bool) error {
	sqlStr := incrementNotHelpfulSQL
	if helpful {
		sqlStr = incrementHelpfulSQL
	}
	_, err := r.db.ExecContext(ctx, sqlStr, reviewID)
	return err
}

func (r *Repo) CreateContribution(ctx context.Context, nc domain.NewContribution) (domain.Contribution, error) {
	res, err := r.db.ExecContext(ctx, insertContributionSQL,
		nc.LandlordID, nc.SuggestedName, valStr(nc.ContactInfo), nc.HowYouKnow, nc.ContributorID)
	if err != nil {
		if isDup(err) {
			return domain.Contribution{}, fmt.Errorf("contribution for landlord %d: %w", nc.LandlordID, domain.ErrConflict)
		}
		return domain.Contribution{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Contribution{}, err
	}

	var c domain.Contribution
	var contact sql.NullString
	err = r.db.QueryRowContext(ctx, getContributionSQL, id).Scan(
		&c.ID, &c.LandlordID, &c.SuggestedName, &contact, &c.HowYouKnow, &c.ContributorID, &c.CreatedAt)
	if err != nil {
		return domain.Contribution{}, err
	}
	if contact.Valid {
		ci := contact.String
		c.ContactInfo = &ci
	}
	return c, nil
}
