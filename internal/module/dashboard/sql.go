package dashboard

const (
	totalsSql = `
	SELECT
	  (SELECT COUNT(*) FROM activity)   AS total_activities,
	  (SELECT COUNT(*) FROM category)   AS total_categories,
	  (SELECT COUNT(*) FROM enrollment) AS total_enrollments,
	  (SELECT COUNT(*) FROM student)    AS total_students,
	  (SELECT COUNT(*) FROM organizer)  AS total_organizers,
	  (SELECT COUNT(*) FROM ` + "`user`" + `)     AS total_users,
	  (SELECT COUNT(*) FROM rating)     AS total_ratings
	`
	byCategorySql = `
	SELECT c.name AS category_name, COUNT(*) AS total_activities
	FROM activity AS a
	JOIN category AS c ON c.id = a.category_id
	GROUP BY c.id, c.name
	ORDER BY total_activities DESC, c.name
	`
	topRatingsSql = `
	SELECT a.id AS activity_id, a.title AS activity_title, AVG(r.stars) AS avg_rating, COUNT(*) AS total_ratings
	FROM rating AS r
	JOIN activity AS a ON a.id = r.activity_id
	GROUP BY a.id, a.title
	ORDER BY avg_rating DESC, total_ratings DESC
	LIMIT ?
	`
)
